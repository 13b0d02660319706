package postprocessor

import "fmt"

const correctionPrompt = `Fix the grammar and spelling mistakes in the following text, which was produced by automatic speech recognition. Restore the logic and meaning where they are broken. Do not add anything new, only correct the existing text. Keep the language of the original. Here is the text:

%s`

const summaryPrompt = `Write a short summary of the following text and list its key points. Answer in the language of the text:

%s`

func buildCorrectionPrompt(transcript string) string {
	return fmt.Sprintf(correctionPrompt, transcript)
}

func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(summaryPrompt, text)
}
