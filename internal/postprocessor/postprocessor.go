package postprocessor

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/voice-digest/internal/llm"
	"github.com/nguyentantai21042004/voice-digest/internal/models"
)

func (p *implPostprocessor) Process(ctx context.Context, result models.TranscriptionResult) (models.SummaryReport, error) {
	client, err := p.generators.Generator(ctx)
	if err != nil {
		return models.SummaryReport{}, generativeError(err)
	}

	source := result.Text
	if p.correction {
		corrected, err := p.correct(ctx, client, result)
		if err != nil {
			return models.SummaryReport{}, err
		}
		source = corrected.Text
	}

	return p.summarize(ctx, client, source)
}

func (p *implPostprocessor) correct(ctx context.Context, client llm.Client, result models.TranscriptionResult) (models.CorrectedTranscript, error) {
	p.logger.Debug(ctx, "Correcting transcript (%d chars)", len(result.Text))

	text, err := client.GenerateContent(ctx, buildCorrectionPrompt(result.Text))
	if err != nil {
		return models.CorrectedTranscript{}, generativeError(err)
	}
	return models.CorrectedTranscript{Text: text}, nil
}

func (p *implPostprocessor) summarize(ctx context.Context, client llm.Client, text string) (models.SummaryReport, error) {
	p.logger.Debug(ctx, "Summarizing text (%d chars)", len(text))

	summary, err := client.GenerateContent(ctx, buildSummaryPrompt(text))
	if err != nil {
		return models.SummaryReport{}, generativeError(err)
	}
	return models.SummaryReport{Text: summary}, nil
}

// generativeError gives both passes the same shape so callers cannot tell them apart
func generativeError(err error) error {
	return models.NewStageError(models.KindGenerative, fmt.Errorf("generative service: %w", err))
}
