package model

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// The external payload comes in two shapes and both must survive a round
// trip. The flat form puts attributes next to the id:
//
//	{ "id": "n1", "label": "Node 1", "size": 20, "x": 1.5 }
//
// The keyed form (the graph library's serialization) nests them:
//
//	{ "key": "n1", "attributes": { "label": "Node 1", "size": 20 } }
//
// Unmarshaling accepts either; marshaling always emits the flat form with
// unknown keys preserved.

// UnmarshalJSON accepts both node wire forms.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	attrs := raw
	if key, ok := raw["key"]; ok {
		id, ok := key.(string)
		if !ok {
			return fmt.Errorf("node key must be a string, got %T", key)
		}
		n.ID = id
		attrs = map[string]any{}
		if nested, ok := raw["attributes"].(map[string]any); ok {
			attrs = nested
		}
	} else {
		id, ok := raw["id"].(string)
		if !ok {
			return fmt.Errorf("node is missing a string id")
		}
		n.ID = id
		delete(attrs, "id")
	}

	n.applyAttrs(attrs)
	return nil
}

func (n *Node) applyAttrs(attrs map[string]any) {
	for k, v := range attrs {
		switch k {
		case "label":
			n.Attrs.Label = asString(v)
		case "category":
			n.Attrs.Category = asString(v)
		case "entity_type", "entityType":
			n.Attrs.EntityType = asString(v)
		case "description":
			n.Attrs.Description = asString(v)
		case "color":
			n.Attrs.Color = asString(v)
		case "size":
			n.Attrs.Size = asFloat(v)
			n.HasSize = true
		case "x":
			n.Attrs.X = asFloat(v)
			n.HasX = true
		case "y":
			n.Attrs.Y = asFloat(v)
			n.HasY = true
		case "importance":
			n.Attrs.Importance = asFloat(v)
		case "highlighted":
			n.Attrs.Highlighted = asBool(v)
		case "hidden":
			n.Attrs.Hidden = asBool(v)
		case "fixed":
			n.Attrs.Fixed = asBool(v)
		default:
			if n.Attrs.Extra == nil {
				n.Attrs.Extra = map[string]any{}
			}
			n.Attrs.Extra[k] = v
		}
	}
}

// MarshalJSON emits the flat wire form, extras included.
func (n Node) MarshalJSON() ([]byte, error) {
	out := map[string]any{"id": n.ID}
	putNodeAttrs(out, n)
	return json.Marshal(out)
}

func putNodeAttrs(out map[string]any, n Node) {
	a := n.Attrs
	if a.Label != "" {
		out["label"] = a.Label
	}
	if a.Category != "" {
		out["category"] = a.Category
	}
	if a.EntityType != "" {
		out["entity_type"] = a.EntityType
	}
	if a.Description != "" {
		out["description"] = a.Description
	}
	if a.Color != "" {
		out["color"] = a.Color
	}
	if n.HasSize || a.Size != 0 {
		out["size"] = a.Size
	}
	if n.HasX || a.X != 0 {
		out["x"] = a.X
	}
	if n.HasY || a.Y != 0 {
		out["y"] = a.Y
	}
	if a.Importance != 0 {
		out["importance"] = a.Importance
	}
	if a.Highlighted {
		out["highlighted"] = true
	}
	if a.Hidden {
		out["hidden"] = true
	}
	if a.Fixed {
		out["fixed"] = true
	}
	for k, v := range a.Extra {
		out[k] = v
	}
}

// UnmarshalJSON accepts both edge wire forms. In the keyed form the
// endpoints may sit at the top level or inside attributes.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	attrs := raw
	if key, ok := raw["key"]; ok {
		id, ok := key.(string)
		if !ok {
			return fmt.Errorf("edge key must be a string, got %T", key)
		}
		e.ID = id
		e.Source = asString(raw["source"])
		e.Target = asString(raw["target"])
		attrs = map[string]any{}
		if nested, ok := raw["attributes"].(map[string]any); ok {
			attrs = nested
		}
	} else {
		e.ID = asString(raw["id"])
		e.Source = asString(raw["source"])
		e.Target = asString(raw["target"])
		delete(attrs, "id")
		delete(attrs, "source")
		delete(attrs, "target")
	}

	// Keyed form may carry endpoints inside attributes instead.
	if e.Source == "" {
		e.Source = asString(attrs["source"])
		delete(attrs, "source")
	}
	if e.Target == "" {
		e.Target = asString(attrs["target"])
		delete(attrs, "target")
	}

	e.applyAttrs(attrs)
	return nil
}

func (e *Edge) applyAttrs(attrs map[string]any) {
	for k, v := range attrs {
		switch k {
		case "label":
			e.Attrs.Label = asString(v)
		case "color":
			e.Attrs.Color = asString(v)
		case "weight":
			e.Attrs.Weight = asFloat(v)
		case "size":
			e.Attrs.Size = asFloat(v)
		case "description":
			e.Attrs.Description = asString(v)
		case "keyword":
			e.Attrs.Keyword = asString(v)
		case "hidden":
			e.Attrs.Hidden = asBool(v)
		default:
			if e.Attrs.Extra == nil {
				e.Attrs.Extra = map[string]any{}
			}
			e.Attrs.Extra[k] = v
		}
	}
}

// MarshalJSON emits the flat wire form.
func (e Edge) MarshalJSON() ([]byte, error) {
	out := map[string]any{"source": e.Source, "target": e.Target}
	if e.ID != "" {
		out["id"] = e.ID
	}
	a := e.Attrs
	if a.Label != "" {
		out["label"] = a.Label
	}
	if a.Color != "" {
		out["color"] = a.Color
	}
	if a.Weight != 0 {
		out["weight"] = a.Weight
	}
	if a.Size != 0 {
		out["size"] = a.Size
	}
	if a.Description != "" {
		out["description"] = a.Description
	}
	if a.Keyword != "" {
		out["keyword"] = a.Keyword
	}
	if a.Hidden {
		out["hidden"] = true
	}
	for k, v := range a.Extra {
		out[k] = v
	}
	return json.Marshal(out)
}

type wireDocument struct {
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
	Options Options `json:"options"`
}

// UnmarshalJSON decodes a document payload in either wire form.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d.Nodes = w.Nodes
	d.Edges = w.Edges
	d.Options = w.Options
	return nil
}

// MarshalJSON encodes the document in the flat wire form.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDocument{Nodes: d.Nodes, Edges: d.Edges, Options: d.Options})
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
