package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/open-policy-agent/opa/v1/ast"

	"github.com/vhavlena/typelattice/pkg/infer"
	"github.com/vhavlena/typelattice/pkg/schema"
	"github.com/vhavlena/typelattice/pkg/types"
)

// buildProvider assembles the input shape provider from the optional
// example document, JSON schema and parameter spec files. Parameter
// declarations take precedence over document-derived shapes.
func buildProvider(yamlFile, schemaFile, specFile string) infer.ShapeProvider {
	var layers schema.Layered

	if specFile != "" {
		specData, err := os.ReadFile(specFile)
		if err != nil {
			fmt.Printf("Warning: Failed to read spec file: %v\n", err)
		} else {
			params, err := schema.ParametersFromSpec(specData)
			if err != nil {
				fmt.Printf("Warning: Failed to process spec file: %v\n", err)
			} else {
				layers = append(layers, params)
			}
		}
	}

	if schemaFile != "" {
		schemaData, err := os.ReadFile(schemaFile)
		if err != nil {
			fmt.Printf("Warning: Failed to read schema file: %v\n", err)
		} else {
			shapes := schema.NewJSONSchemaShapes()
			if err := shapes.ProcessInput(schemaData); err != nil {
				fmt.Printf("Warning: Failed to process JSON schema: %v\n", err)
			} else {
				layers = append(layers, shapes)
			}
		}
	}

	if yamlFile != "" {
		yamlData, err := os.ReadFile(yamlFile)
		if err != nil {
			fmt.Printf("Warning: Failed to read YAML input file: %v\n", err)
		} else {
			shapes := schema.NewExampleShapes()
			if err := shapes.ProcessInput(yamlData); err != nil {
				fmt.Printf("Warning: Failed to process YAML input: %v\n", err)
			} else {
				layers = append(layers, shapes)
			}
		}
	}

	if len(layers) == 0 {
		return nil
	}
	return layers
}

// describeModule infers shapes for a Rego module and prints them.
func describeModule(mod *ast.Module, provider infer.ShapeProvider, level types.VerbosityLevel) {
	inferrer := infer.NewShapeInferrerForPackage(mod.Package.Path, provider)
	inferrer.AnalyzeModule(mod)

	shapes := inferrer.AllShapes()
	if len(shapes) == 0 {
		fmt.Println("No shapes inferred.")
		return
	}

	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Inferred shapes:")
	for _, name := range names {
		shape := shapes[name]
		fmt.Printf("  %s: %s\n", name, shape.Describe(level))
	}
}

// parseRegoFile parses a Rego file and returns the AST Module.
func parseRegoFile(file string) (*ast.Module, error) {
	fileBytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	module, err := ast.ParseModule(file, string(fileBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse module: %w", err)
	}

	return module, nil
}

func main() {
	regoFile := flag.String("rego", "", "Path to the Rego policy file (required)")
	yamlFile := flag.String("yaml", "", "Path to a YAML example input document (optional)")
	schemaFile := flag.String("schema", "", "Path to a JSON Schema for the input document (optional)")
	specFile := flag.String("spec", "", "Path to the parameter specification file (optional)")
	verbosity := flag.String("verbosity", "value", "Rendering mode: value or type")

	flag.Parse()

	if *regoFile == "" {
		fmt.Println("Error: Rego policy file is required")
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var level types.VerbosityLevel
	switch *verbosity {
	case "value":
		level = types.VerbosityValue
	case "type":
		level = types.VerbosityTypeOnly
	default:
		fmt.Printf("Error: unknown verbosity %q (want value or type)\n", *verbosity)
		os.Exit(1)
	}

	module, err := parseRegoFile(*regoFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	describeModule(module, buildProvider(*yamlFile, *schemaFile, *specFile), level)
}
