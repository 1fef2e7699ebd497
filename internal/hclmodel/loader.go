// Package hclmodel is the declarative front-end: it loads .hcl model files
// and populates a model container through its add API. It is structural
// only — term maps and value tuples, never a symbolic expression grammar.
package hclmodel

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/infiniopt/internal/container"
	"github.com/vk/infiniopt/internal/ctxlog"
	"github.com/vk/infiniopt/internal/fsutil"
)

// LoadDir finds all .hcl model files under path, merges their blocks and
// builds one model container from the result.
func LoadDir(ctx context.Context, path string) (*container.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading model from path", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find model files in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl model files found in path, building empty model", "path", path)
		return container.New(), nil
	}

	parser := hclparse.NewParser()
	merged := &modelFile{}
	for _, file := range files {
		parsed, err := parseModelFile(file, parser)
		if err != nil {
			return nil, err
		}
		merged.Parameters = append(merged.Parameters, parsed.Parameters...)
		merged.Variables = append(merged.Variables, parsed.Variables...)
		merged.Measures = append(merged.Measures, parsed.Measures...)
		merged.Constraints = append(merged.Constraints, parsed.Constraints...)
		if parsed.Objective != nil {
			if merged.Objective != nil {
				return nil, fmt.Errorf("duplicate objective block in %s", file)
			}
			merged.Objective = parsed.Objective
		}
	}
	return build(ctx, merged)
}

// LoadFile parses a single .hcl model file and builds a container from it.
func LoadFile(ctx context.Context, path string) (*container.Model, error) {
	parsed, err := parseModelFile(path, hclparse.NewParser())
	if err != nil {
		return nil, err
	}
	return build(ctx, parsed)
}

// parseModelFile parses one HCL file into its block structure.
func parseModelFile(filePath string, parser *hclparse.Parser) (*modelFile, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed modelFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}
	return &parsed, nil
}
