package summarizer

import "fmt"

// summaryPrompt is shared by every provider; only the request envelope
// differs per variant. The two labeled sections are what render.SplitBilingual
// keys on downstream.
const summaryPrompt = `You are an expert at analyzing transcriptions and creating structured summaries.

Given the following audio transcription, please:

1. Identify and extract the main topics discussed (maximum 5-7 main topics)
2. Create a concise summary for each main topic
3. Extract any action items, decisions, or key takeaways
4. Note any important names, dates, or specific details mentioned

Please provide the output in TWO languages:

**ENGLISH VERSION:**
- Main Topics: (as bullet points with brief summaries)
- Key Takeaways: (important points as bullets)
- Action Items: (if any mentioned)
- Notable Details: (names, dates, numbers, etc.)

**TURKISH VERSION (TÜRKÇE):**
- Ana Başlıklar: (madde madde kısa özetlerle)
- Önemli Noktalar: (önemli çıkarımlar madde halinde)
- Aksiyon Maddeleri: (varsa)
- Dikkat Çeken Detaylar: (isimler, tarihler, sayılar vb.)

Transcription:
%s

Please format your response with clear headers and bullet points for easy reading. Be concise but comprehensive.`

func buildPrompt(transcript string) string {
	return fmt.Sprintf(summaryPrompt, transcript)
}
