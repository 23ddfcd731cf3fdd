package registry

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// declared is one module block lifted out of a manifest file.
type declared struct {
	Runner string
	Spec   Spec
}

var manifestSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module", LabelNames: []string{"id"}},
	},
}

var moduleSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "runner", Required: true},
		{Name: "name"},
		{Name: "description"},
		{Name: "icon"},
		{Name: "color"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "config"},
	},
}

// parseManifest reads one .hcl manifest and returns its module declarations
// in file order. Module ids are the lower-cased block labels.
func parseManifest(path string) ([]declared, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	content, diags := file.Body.Content(manifestSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, diags)
	}

	var decls []declared
	for _, block := range content.Blocks {
		decl, err := decodeModuleBlock(block)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func decodeModuleBlock(block *hcl.Block) (declared, error) {
	id := strings.ToLower(block.Labels[0])

	content, diags := block.Body.Content(moduleSchema)
	if diags.HasErrors() {
		return declared{}, fmt.Errorf("invalid module block %q: %w", id, diags)
	}

	decl := declared{Spec: Spec{ID: id, Config: map[string]any{}}}

	strAttrs := map[string]*string{
		"runner":      &decl.Runner,
		"name":        &decl.Spec.Name,
		"description": &decl.Spec.Description,
		"icon":        &decl.Spec.Icon,
		"color":       &decl.Spec.Color,
	}
	for name, target := range strAttrs {
		attr, ok := content.Attributes[name]
		if !ok {
			continue
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return declared{}, fmt.Errorf("module %q attribute %q: %w", id, name, diags)
		}
		s, err := ctyToNative(val)
		if err != nil {
			return declared{}, fmt.Errorf("module %q attribute %q: %w", id, name, err)
		}
		str, ok := s.(string)
		if !ok {
			return declared{}, fmt.Errorf("module %q attribute %q: expected string, got %T", id, name, s)
		}
		*target = str
	}

	if decl.Runner == "" {
		return declared{}, fmt.Errorf("module %q: runner must not be empty", id)
	}

	for _, sub := range content.Blocks {
		attrs, diags := sub.Body.JustAttributes()
		if diags.HasErrors() {
			return declared{}, fmt.Errorf("module %q config block: %w", id, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return declared{}, fmt.Errorf("module %q config %q: %w", id, name, diags)
			}
			native, err := ctyToNative(val)
			if err != nil {
				return declared{}, fmt.Errorf("module %q config %q: %w", id, name, err)
			}
			decl.Spec.Config[name] = native
		}
	}

	return decl, nil
}
