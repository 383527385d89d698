package cmd

import (
	"github.com/rs/zerolog"

	"ttsdumper/internal/asset"
	"ttsdumper/internal/extract"
	"ttsdumper/internal/models"
)

// parsedInputs is everything extracted from the command line documents.
type parsedInputs struct {
	tasks    []asset.Task
	saveName string
	errors   []models.InputError
}

// parseInputs extracts tasks from every path. A document that fails to parse
// is recorded and skipped; the others still contribute tasks.
func parseInputs(paths []string, passes []asset.FieldMapping, log zerolog.Logger) parsedInputs {
	var in parsedInputs
	for _, path := range paths {
		save, err := extract.Load(path)
		if err != nil {
			in.reject(path, err, log)
			continue
		}

		tasks, err := save.Tasks(passes...)
		if err != nil {
			in.reject(path, err, log)
			continue
		}

		if in.saveName == "" {
			in.saveName = save.Name
		}
		log.Info().Str("input", path).Str("save", save.Name).Int("tasks", len(tasks)).Msg("Parsed save")
		for _, task := range tasks {
			log.Debug().Str("kind", task.Kind.String()).Str("name", task.LocalName).Msg(task.URL)
		}
		in.tasks = append(in.tasks, tasks...)
	}
	return in
}

func (in *parsedInputs) reject(path string, err error, log zerolog.Logger) {
	log.Error().Err(err).Str("input", path).Msg("Skipping input")
	in.errors = append(in.errors, models.InputError{Path: path, Error: err.Error()})
}

func (in *parsedInputs) allFailed(paths []string) bool {
	return len(in.errors) == len(paths)
}
