package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	textOutput = "text"
	jsonOutput = "json"
	yamlOutput = "yaml"
	stdinName  = "-"
)

type input struct {
	name string
	text string
}

// readInputs reads every file named in args. No argument, or "-", reads the
// command's input.
func readInputs(cmd *cobra.Command, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{stdinName}
	}

	inputs := make([]input, 0, len(args))
	for _, name := range args {
		var (
			b   []byte
			err error
		)
		if name == stdinName {
			b, err = io.ReadAll(cmd.InOrStdin())
		} else {
			b, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		inputs = append(inputs, input{name: name, text: string(b)})
	}
	return inputs, nil
}

func validateOutput(output string) error {
	switch output {
	case textOutput, jsonOutput, yamlOutput:
		return nil
	default:
		return fmt.Errorf("invalid output format: %q", output)
	}
}

// encode writes v as json or yaml.
func encode(w io.Writer, output string, v any) error {
	switch output {
	case jsonOutput:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case yamlOutput:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid output format: %q", output)
	}
}
