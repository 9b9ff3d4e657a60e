package modules

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/bizview/backend/internal/domain/shared"
	"github.com/bizview/backend/internal/domain/uiview"
)

// View-name suffixes identifying each module generation.
const (
	suffixLayout = ".layout"
	suffixMeta   = ".detail_view_meta"
	suffixLegacy = ".detail-view"
)

// LoaderFor builds the registry loader for one manifest entry: fetch the
// module bytes from the store, then decode with the codec matching the view
// name's generation suffix. Names without a generation suffix are list view
// modules.
func LoaderFor(store Store, ref, viewName string) uiview.Loader {
	decode := decoderFor(viewName)
	return func(ctx context.Context) (uiview.Component, error) {
		data, err := store.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		comp, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode module %q: %w", ref, err)
		}
		return comp, nil
	}
}

func decoderFor(viewName string) func([]byte) (uiview.Component, error) {
	switch {
	case strings.HasSuffix(viewName, suffixLayout):
		return DecodeLayout
	case strings.HasSuffix(viewName, suffixMeta):
		return DecodeMeta
	case strings.HasSuffix(viewName, suffixLegacy):
		return DecodeLegacy
	default:
		return DecodeList
	}
}

type fieldDoc struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Widget string `json:"widget"`
}

func (f fieldDoc) toField() uiview.Field {
	label := f.Label
	if label == "" {
		label = humanize(f.Name)
	}
	return uiview.Field{Name: f.Name, Label: label, Widget: f.Widget}
}

// layoutDoc is the newest-generation module schema: a titled set of regions.
type layoutDoc struct {
	Title   string `json:"title"`
	Regions []struct {
		Label  string     `json:"label"`
		Fields []fieldDoc `json:"fields"`
	} `json:"regions"`
}

// DecodeLayout decodes a tier-1 layout module. The resulting component is
// pure presentation; the paired handler owns the data lifecycle, so the
// component never touches Deps.
func DecodeLayout(data []byte) (uiview.Component, error) {
	var doc layoutDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if len(doc.Regions) == 0 {
		return nil, fmt.Errorf("%w: layout module has no regions", shared.ErrInvalidInput)
	}
	return uiview.ComponentFunc(func(ctx context.Context, props uiview.RenderProps) (*uiview.RenderOutput, error) {
		out := &uiview.RenderOutput{
			ObjectCode: props.ObjectCode,
			RecordID:   props.RecordID,
			Title:      titleOr(doc.Title, props.ObjectCode),
		}
		for _, r := range doc.Regions {
			region := uiview.Region{Label: r.Label}
			for _, f := range r.Fields {
				region.Fields = append(region.Fields, f.toField())
			}
			out.Regions = append(out.Regions, region)
		}
		return out, nil
	}), nil
}

// metaDoc is the middle-generation module schema: sectioned field metadata
// with an explicit meta version.
type metaDoc struct {
	MetaVersion int    `json:"meta_version"`
	Title       string `json:"title"`
	Sections    []struct {
		Heading string     `json:"heading"`
		Fields  []fieldDoc `json:"fields"`
	} `json:"sections"`
}

// DecodeMeta decodes a detail_view_meta module. Meta components manage their
// own data lifecycle and therefore require the injected dependency bundle.
func DecodeMeta(data []byte) (uiview.Component, error) {
	var doc metaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("%w: detail_view_meta module has no sections", shared.ErrInvalidInput)
	}
	return uiview.ComponentFunc(func(ctx context.Context, props uiview.RenderProps) (*uiview.RenderOutput, error) {
		if props.Deps == nil {
			return nil, fmt.Errorf("%w: detail_view_meta component requires the dependency bundle", shared.ErrInvalidInput)
		}
		out := &uiview.RenderOutput{
			ObjectCode: props.ObjectCode,
			RecordID:   props.RecordID,
			Title:      titleOr(doc.Title, props.ObjectCode),
		}
		for _, s := range doc.Sections {
			region := uiview.Region{Label: s.Heading}
			for _, f := range s.Fields {
				region.Fields = append(region.Fields, f.toField())
			}
			out.Regions = append(out.Regions, region)
		}
		return out, nil
	}), nil
}

// legacyDoc is the oldest-generation module schema: one flat field list.
type legacyDoc struct {
	Title  string     `json:"title"`
	Fields []fieldDoc `json:"fields"`
}

// DecodeLegacy decodes a legacy detail-view module. Like meta components,
// legacy components require the dependency bundle.
func DecodeLegacy(data []byte) (uiview.Component, error) {
	var doc legacyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("%w: detail-view module has no fields", shared.ErrInvalidInput)
	}
	return uiview.ComponentFunc(func(ctx context.Context, props uiview.RenderProps) (*uiview.RenderOutput, error) {
		if props.Deps == nil {
			return nil, fmt.Errorf("%w: detail-view component requires the dependency bundle", shared.ErrInvalidInput)
		}
		region := uiview.Region{}
		for _, f := range doc.Fields {
			region.Fields = append(region.Fields, f.toField())
		}
		return &uiview.RenderOutput{
			ObjectCode: props.ObjectCode,
			RecordID:   props.RecordID,
			Title:      titleOr(doc.Title, props.ObjectCode),
			Regions:    []uiview.Region{region},
		}, nil
	}), nil
}

// listDoc is the list view module schema: a column set.
type listDoc struct {
	Title   string     `json:"title"`
	Columns []fieldDoc `json:"columns"`
}

// DecodeList decodes a list view module.
func DecodeList(data []byte) (uiview.Component, error) {
	var doc listDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if len(doc.Columns) == 0 {
		return nil, fmt.Errorf("%w: list module has no columns", shared.ErrInvalidInput)
	}
	return uiview.ComponentFunc(func(ctx context.Context, props uiview.RenderProps) (*uiview.RenderOutput, error) {
		region := uiview.Region{Label: "columns"}
		for _, c := range doc.Columns {
			region.Fields = append(region.Fields, c.toField())
		}
		return &uiview.RenderOutput{
			ObjectCode: props.ObjectCode,
			Title:      titleOr(doc.Title, props.ObjectCode),
			Regions:    []uiview.Region{region},
		}, nil
	}), nil
}

func titleOr(title, objectCode string) string {
	if title != "" {
		return title
	}
	return humanize(objectCode)
}

// humanize turns "shipping_address" into "Shipping Address".
func humanize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
