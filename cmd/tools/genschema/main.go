package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/isaacphi/mapsxplr/internal/config"
)

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "mapsxplr.schema.json", "Output file path, - for stdout")
	flag.Parse()

	if err := run(outFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outFile string) error {
	schema, err := config.GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("error generating schema: %w", err)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling schema: %w", err)
	}

	if outFile == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	if !filepath.IsAbs(outFile) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("error getting working directory: %w", err)
		}
		outFile = filepath.Join(wd, outFile)
	}

	dir := filepath.Dir(outFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return fmt.Errorf("error writing schema to %s: %w", outFile, err)
	}
	fmt.Printf("Schema written to %s\n", outFile)
	return nil
}
