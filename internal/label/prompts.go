package label

import "github.com/thywilljoshua/pdf-labeller/internal/ai"

const (
	labelIntro  = "Label and categorize this PDF page content:"
	labelOutro  = "Provide clear labels like: Title, Header, Paragraph, Image, Table, List, etc."
	answerIntro = "Answer based on this PDF page content:"
	answerOutro = "Provide a clear, specific answer."

	labelSystem  = "Label and categorize the PDF page content given by the user. " + labelOutro
	answerSystem = "Answer the user's question based only on the PDF page content given by the user. " + answerOutro
)

// prompt keeps instructions and page content in separate messages. flat is
// the single-text rendering written to the transcript.
type prompt struct {
	messages []ai.Message
	flat     string
}

func labelPrompt(content string) prompt {
	return prompt{
		messages: []ai.Message{
			{Role: ai.RoleSystem, Content: labelSystem},
			{Role: ai.RoleUser, Content: content},
		},
		flat: labelIntro + "\n\n" + content + "\n\n" + labelOutro,
	}
}

func questionPrompt(content, question string) prompt {
	q := "Question: " + question
	return prompt{
		messages: []ai.Message{
			{Role: ai.RoleSystem, Content: answerSystem},
			{Role: ai.RoleUser, Content: content},
			{Role: ai.RoleUser, Content: q},
		},
		flat: answerIntro + "\n\n" + content + "\n\n" + q + "\n\n" + answerOutro,
	}
}
