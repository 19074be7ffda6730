package analysis

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelineBackends"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/scrapeflow/internal/models"
)

// hugotNER runs entity extraction through an ONNX token-classification
// pipeline. The session owns native runtime resources and lives for the whole
// process.
type hugotNER struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
}

func newHugotNER(modelPath, modelDir string) (*hugotNER, error) {
	resolved, err := resolveModelPath(modelPath, modelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: resolved,
		Name:      "nerPipeline",
		Options: []pipelineBackends.PipelineOption[*pipelines.TokenClassificationPipeline]{
			pipelines.WithSimpleAggregation(),
		},
	}

	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("failed to initialize NER pipeline: %w", err)
	}

	return &hugotNER{session: session, pipeline: pipeline}, nil
}

// resolveModelPath returns modelPath when it exists on disk. Otherwise the
// value is treated as a hub model name and fetched into modelDir.
func resolveModelPath(modelPath, modelDir string) (string, error) {
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	}

	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	slog.Info("[Analyzer] Model not found locally, downloading",
		slog.String("model", modelPath),
		slog.String("model_dir", modelDir))

	downloaded, err := hugot.DownloadModel(modelPath, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download NER model: %w", err)
	}

	slog.Info("[Analyzer] Model downloaded", slog.String("path", downloaded))
	return downloaded, nil
}

func (h *hugotNER) entities(text string) ([]models.Entity, error) {
	output, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, err
	}

	ents := make([]models.Entity, 0)
	for _, batch := range output.Entities {
		for _, ent := range batch {
			ents = append(ents, models.Entity{
				Text:  ent.Word,
				Label: ent.Entity,
				Start: int(ent.Start),
				End:   int(ent.End),
			})
		}
	}

	return ents, nil
}

func (h *hugotNER) Close() error {
	h.session.Destroy()
	return nil
}
