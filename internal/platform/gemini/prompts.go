package gemini

import (
	"fmt"

	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/generation"
)

// Localized zodiac sign names. The prompt falls back to the raw sign key
// for anything outside the catalog.
var zodiacNamesDE = map[string]string{
	"aries":       "Widder",
	"taurus":      "Stier",
	"gemini":      "Zwillinge",
	"cancer":      "Krebs",
	"leo":         "Löwe",
	"virgo":       "Jungfrau",
	"libra":       "Waage",
	"scorpio":     "Skorpion",
	"sagittarius": "Schütze",
	"capricorn":   "Steinbock",
	"aquarius":    "Wassermann",
	"pisces":      "Fische",
}

var zodiacNamesEN = map[string]string{
	"aries":       "Aries",
	"taurus":      "Taurus",
	"gemini":      "Gemini",
	"cancer":      "Cancer",
	"leo":         "Leo",
	"virgo":       "Virgo",
	"libra":       "Libra",
	"scorpio":     "Scorpio",
	"sagittarius": "Sagittarius",
	"capricorn":   "Capricorn",
	"aquarius":    "Aquarius",
	"pisces":      "Pisces",
}

func zodiacName(sign, language string) string {
	names := zodiacNamesEN
	if language == "de" {
		names = zodiacNamesDE
	}
	if name, ok := names[sign]; ok {
		return name
	}
	return sign
}

// buildHoroscopePrompt renders the user prompt for the batched horoscope
// job.
func buildHoroscopePrompt(params generation.HoroscopeParams) string {
	name := zodiacName(params.Sign, params.Language)
	date := domain.FormatDay(params.Date)

	if params.Language == "de" {
		return fmt.Sprintf(`Schreibe ein Tageshoroskop für %s am %s.

Anforderungen:
- Länge: 80-120 Wörter
- Ton: Unterhaltsam, inspirierend, bodenständig
- Struktur: 2-3 Absätze (fließender Text)
- Keine Auflistungen oder Bullet-Points
- Fokus: Persönlichkeitsentwicklung und konkrete Impulse
- Keine leeren Versprechen

Vermeide: Esoterischen Jargon, Angstmache, Verallgemeinerungen

Format: Reiner Fließtext, keine Überschriften.`, name, date)
	}

	return fmt.Sprintf(`Write a daily horoscope for %s on %s.

Requirements:
- Length: 80-120 words
- Tone: Entertaining, inspiring, grounded
- Structure: 2-3 paragraphs (flowing text)
- No bullet points or lists
- Focus: Personal growth and actionable insights
- No empty promises

Avoid: Esoteric jargon, fear-mongering, generalizations

Format: Pure flowing text, no headings.`, name, date)
}

// horoscopeSystemInstruction returns the per-language system instruction
// for the horoscope job.
func horoscopeSystemInstruction(language string) string {
	if language == "de" {
		return `Du bist eine erfahrene Astrologin, die für die Nuuray Glow App Tageshoroskope schreibt.

Dein Charakter:
- Unterhaltsam & inspirierend (wie eine gute Freundin)
- Bodenständig & realistisch (keine leeren Versprechen)
- Empowernd (Fokus auf Handlungsfähigkeit)

Wichtig:
- Keine Angstmache oder Drama
- Keine unrealistischen Versprechen
- Fokus auf inneres Wachstum, nicht externe Ereignisse
- Jedes Horoskop ist EINZIGARTIG (keine Templates!)

Ton: Warm, direkt, authentisch. Du sprichst die Leserin wie eine Freundin an.`
	}

	return `You are an experienced astrologer writing daily horoscopes for the Nuuray Glow app.

Your character:
- Entertaining & inspiring (like a good friend)
- Grounded & realistic (no empty promises)
- Empowering (focus on agency)

Important:
- No fear-mongering or drama
- No unrealistic promises
- Focus on inner growth, not external events
- Each horoscope is UNIQUE (no templates!)

Tone: Warm, direct, authentic. You speak to the reader like a friend.`
}

// buildContentPrompt renders the single combined prompt the content job
// uses. Moon phase and daily energy context are woven directly into the
// prompt instead of a system instruction.
func buildContentPrompt(params generation.ContentParams) string {
	date := domain.FormatDay(params.Date)

	langInstruction := "Write in English."
	if params.Language == "de" {
		langInstruction = "Schreibe auf Deutsch."
	}

	return fmt.Sprintf(`Du bist eine charmante, kluge Astrologin, die täglich Horoskope schreibt.
Dein Stil ist warm, überraschend und nie langweilig. Du vermeidest Klischees.

Schreibe ein Tageshoroskop für %s am %s.

Kontext:
- Mondphase: %s
- Tagesenergie: %s

%s
Länge: 150-200 Wörter
Ton: Lebendig, überraschend, mit einem konkreten Tipp für den Tag.
Format: Fließtext, keine Aufzählungen. Ein Absatz.

Beginne NICHT mit "Liebe/r %s" oder ähnlichen Floskeln.
Beginne stattdessen mit einer konkreten, überraschenden Beobachtung.`,
		params.Sign, date, params.MoonPhase, params.DailyEnergy, langInstruction, params.Sign)
}
