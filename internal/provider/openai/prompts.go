package openai

import "strings"

// Summaries are produced in the deployment language. Swahili is the
// default; English is supported for mixed-language deployments.

const summarySchemaSnippet = `{
  "muhtasari": "string",
  "maamuzi": ["string"],
  "kazi": [{"nani": "string", "kazi": "string", "tarehe": "string or null"}],
  "masuala_yaliyoahirishwa": ["string"]
}`

func systemPrompt(language string) string {
	if strings.EqualFold(language, "en") {
		return `You are an expert content analyst who summarizes spoken content: meetings, lectures, interviews, conversations.
Use ONLY information explicitly stated in the transcript. Do not invent names, people, or details.
Always produce a thorough narrative summary in "muhtasari"; return empty arrays for sections with nothing explicitly stated.
Preserve names, technical terms, and any language mixing exactly as spoken.
Respond with valid JSON only, using exactly this structure:
` + summarySchemaSnippet
	}

	return `You are an expert meeting analyst and professional Swahili business writer.
Tumia TU taarifa zilizotajwa waziwazi katika nakala. Usibuni majina, watu, au maelezo yoyote.
Andika muhtasari wa kina katika "muhtasari" kwa Kiswahili cha Kisanifu; rudisha arrays tupu kwa sehemu zisizo na taarifa.
Hifadhi majina, istilahi za kiufundi, na mchanganyiko wa lugha kama yalivyosemwa.
Respond with valid JSON only, using exactly this structure:
` + summarySchemaSnippet
}

func userPrompt(language, transcript string) string {
	var b strings.Builder

	if strings.EqualFold(language, "en") {
		b.WriteString("Analyze the following transcript and return ONLY valid JSON matching the schema.\n")
		b.WriteString("maamuzi: only decisions explicitly stated. kazi: only tasks explicitly assigned, with nani (person), kazi (task), tarehe (date, null if none). masuala_yaliyoahirishwa: only topics explicitly deferred.\n")
	} else {
		b.WriteString("Chambua nakala ifuatayo na urudishe JSON halali pekee inayolingana na schema.\n")
		b.WriteString("maamuzi: maamuzi yaliyotajwa waziwazi tu. kazi: kazi zilizopangwa waziwazi tu, na nani, kazi, tarehe (null kama haipo). masuala_yaliyoahirishwa: mada zilizoahirishwa waziwazi tu.\n")
	}

	b.WriteString("\nTranscript:\n<<<\n")
	b.WriteString(transcript)
	b.WriteString("\n>>>\n\nReturn the JSON response now:")

	out := b.String()
	if hasCodeSwitching(transcript) {
		out += "\n\nMUHIMU: Nakala hii ina mchanganyiko wa Kiswahili na Kiingereza. " +
			"Weka istilahi za kiteknolojia na maneno ya Kiingereza kama yalivyo bila kuyabadilisha."
	}
	return out
}

// English function words that signal code-switching when they show up in
// a mostly-Swahili transcript.
var englishIndicators = []string{
	"the", "is", "to", "of", "and", "in", "for", "with", "on", "at",
}

// hasCodeSwitching reports whether the transcript mixes English into
// Swahili. Three or more common English function words is the threshold.
func hasCodeSwitching(text string) bool {
	count := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		for _, indicator := range englishIndicators {
			if word == indicator {
				count++
				break
			}
		}
		if count >= 3 {
			return true
		}
	}
	return false
}
