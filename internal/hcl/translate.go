package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/dropsimgo/internal/model"
	"github.com/specialistvlad/dropsimgo/internal/schema"
)

// translateFile converts one parsed HCL file into a scenario. The file's
// top-level blocks are walked in source order: types and the scenario header
// may appear anywhere, but let/init/store/drop/temp blocks form the program
// and keep their relative order.
func (l *Loader) translateFile(ctx context.Context, file *hcl.File, path string) (*model.Scenario, error) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s: scenario files must use native HCL syntax", path)
	}
	for name := range body.Attributes {
		return nil, fmt.Errorf("%s: unexpected top-level attribute %q", path, name)
	}

	scen := model.NewScenario("")
	for _, block := range body.Blocks {
		var err error
		switch block.Type {
		case "scenario":
			err = l.translateHeader(scen, block)
		case "type":
			err = l.translateType(scen, block)
		case "let":
			err = l.translateLet(scen, block)
		case "init":
			err = l.translateInit(scen, block)
		case "store":
			err = l.translateStore(scen, block)
		case "drop":
			name, lerr := blockLabel(block)
			if lerr != nil {
				err = lerr
				break
			}
			scen.Drop(name)
		case "temp":
			err = l.translateTemp(scen, block)
		default:
			err = fmt.Errorf("unknown block type %q", block.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, block.DefRange().Start.Line, err)
		}
	}

	if scen.Name == "" {
		return nil, fmt.Errorf("%s: missing scenario block", path)
	}
	return scen, nil
}

// translateHeader decodes the `scenario "name"` block. The attributes are
// evaluated to cty values and decoded by hand; the header is the one block
// whose shape we want to keep open for extension without reshaping a schema
// struct.
func (l *Loader) translateHeader(scen *model.Scenario, block *hclsyntax.Block) error {
	name, err := blockLabel(block)
	if err != nil {
		return err
	}
	if scen.Name != "" {
		return fmt.Errorf("duplicate scenario block %q", name)
	}
	scen.Name = name

	for attrName, attr := range block.Body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("scenario attribute %q: %w", attrName, diags)
		}
		switch attrName {
		case "description":
			if err := fromCty(val, &scen.Description); err != nil {
				return fmt.Errorf("scenario description: %w", err)
			}
		default:
			return fmt.Errorf("unknown scenario attribute %q", attrName)
		}
	}
	return nil
}

func (l *Loader) translateType(scen *model.Scenario, block *hclsyntax.Block) error {
	name, err := blockLabel(block)
	if err != nil {
		return err
	}

	var parsed schema.Type
	if diags := gohcl.DecodeBody(block.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("type %q: %w", name, diags)
	}

	t := &model.Type{Name: name}
	if parsed.Destructor != nil {
		t.Dtor = &model.Destructor{Reads: parsed.Destructor.Reads}
	}
	for _, pf := range parsed.Fields {
		kind, err := model.ParseFieldKind(pf.Kind)
		if err != nil {
			return fmt.Errorf("type %q field %q: %w", name, pf.Name, err)
		}
		t.Fields = append(t.Fields, &model.Field{
			Name:        pf.Name,
			Of:          pf.Of,
			Kind:        kind,
			MayDangle:   pf.MayDangle,
			OwnsForDrop: pf.OwnsForDrop,
		})
	}

	if _, exists := scen.Types[name]; exists {
		return fmt.Errorf("type %q declared twice", name)
	}
	scen.Types[name] = t
	return nil
}

func (l *Loader) translateLet(scen *model.Scenario, block *hclsyntax.Block) error {
	name, err := blockLabel(block)
	if err != nil {
		return err
	}
	var parsed schema.Let
	if diags := gohcl.DecodeBody(block.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("let %q: %w", name, diags)
	}
	if parsed.Value == nil {
		scen.Let(name)
		return nil
	}
	expr, err := translateValue(parsed.Value)
	if err != nil {
		return fmt.Errorf("let %q: %w", name, err)
	}
	scen.LetInit(name, expr)
	return nil
}

func (l *Loader) translateInit(scen *model.Scenario, block *hclsyntax.Block) error {
	name, err := blockLabel(block)
	if err != nil {
		return err
	}
	var parsed schema.Init
	if diags := gohcl.DecodeBody(block.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("init %q: %w", name, diags)
	}
	if parsed.Value == nil {
		return fmt.Errorf("init %q requires a value block", name)
	}
	expr, err := translateValue(parsed.Value)
	if err != nil {
		return fmt.Errorf("init %q: %w", name, err)
	}
	scen.Init(name, expr)
	return nil
}

func (l *Loader) translateStore(scen *model.Scenario, block *hclsyntax.Block) error {
	name, err := blockLabel(block)
	if err != nil {
		return err
	}
	var parsed schema.Store
	if diags := gohcl.DecodeBody(block.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("store %q: %w", name, diags)
	}
	arg, err := translateArg(&schema.Arg{
		Field: parsed.Field,
		Ref:   parsed.Ref,
		Move:  parsed.Move,
		Value: parsed.Value,
	})
	if err != nil {
		return fmt.Errorf("store %q: %w", name, err)
	}
	scen.Store(name, parsed.Field, arg)
	return nil
}

func (l *Loader) translateTemp(scen *model.Scenario, block *hclsyntax.Block) error {
	var parsed schema.Temp
	if diags := gohcl.DecodeBody(block.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("temp: %w", diags)
	}
	if parsed.Value == nil {
		return fmt.Errorf("temp requires a value block")
	}
	expr, err := translateValue(parsed.Value)
	if err != nil {
		return fmt.Errorf("temp: %w", err)
	}
	scen.Temp(expr)
	return nil
}

func translateValue(sv *schema.Value) (*model.Expr, error) {
	expr := &model.Expr{Type: sv.Type}
	for _, sa := range sv.Args {
		arg, err := translateArg(sa)
		if err != nil {
			return nil, fmt.Errorf("value of type %q: %w", sv.Type, err)
		}
		expr.Args = append(expr.Args, arg)
	}
	return expr, nil
}

func translateArg(sa *schema.Arg) (*model.Arg, error) {
	set := 0
	if sa.Ref != "" {
		set++
	}
	if sa.Move != "" {
		set++
	}
	if sa.Value != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("argument for field %q must supply exactly one of ref, move or value", sa.Field)
	}

	arg := &model.Arg{Field: sa.Field, Ref: sa.Ref, Move: sa.Move}
	if sa.Value != nil {
		nested, err := translateValue(sa.Value)
		if err != nil {
			return nil, err
		}
		arg.New = nested
	}
	return arg, nil
}

// blockLabel returns the single name label of a block.
func blockLabel(block *hclsyntax.Block) (string, error) {
	if len(block.Labels) != 1 || block.Labels[0] == "" {
		return "", fmt.Errorf("%s block requires exactly one name label", block.Type)
	}
	return block.Labels[0], nil
}

// fromCty decodes a cty value into a Go target, converting when needed.
func fromCty(val cty.Value, target any) error {
	if val.Type() == cty.NilType || val.IsNull() {
		return fmt.Errorf("value is null")
	}
	return gocty.FromCtyValue(val, target)
}
