package handlers

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/routerlab/orchestrate/internal/config"
	"github.com/routerlab/orchestrate/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	runWizard = wizard.Run
)

// Init runs the topology wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	topo := result.ToTopology()
	if err := writeTopology(topo, outputPath); err != nil {
		return fmt.Errorf("failed to write topology: %w", err)
	}

	fmt.Printf("Wrote %s. Next: orchestrate up -c %s\n", outputPath, outputPath)
	return nil
}

func writeTopology(topo *config.Topology, path string) error {
	content, err := yaml.Marshal(topo)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}
