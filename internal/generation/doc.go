// Package generation provides the interface for interacting with external
// AI/LLM services for content generation. It abstracts the details of LLM
// API integration (Gemini), allowing the jobs to generate daily horoscopes
// and content without coupling to a specific external service.
package generation
