package nkit

import "strings"

// Column is a named, typed table column.
type Column struct {
	Name string
	Type Tag
}

// splitDef splits a comma separated definition into trimmed items.
func splitDef(def string) []string {
	parts := strings.Split(def, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseTableDef parses "name[:TYPE],...". A missing type means STRING.
func parseTableDef(def string) ([]Column, error) {
	if strings.TrimSpace(def) == "" {
		return nil, schemaErrorf(def, "Table definition could not be empty")
	}
	items := splitDef(def)
	cols := make([]Column, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		name, typeName, _ := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if strings.TrimSpace(typeName) == "" {
			typeName = "STRING"
		}
		typ, ok := ParseTag(typeName)
		if !ok || name == "" {
			return nil, schemaErrorf(def, "Wrong table definition: '%s'", item)
		}
		if _, dup := seen[name]; dup {
			return nil, schemaErrorf(def, "Duplicate column name '%s'", name)
		}
		seen[name] = struct{}{}
		cols = append(cols, Column{Name: name, Type: typ})
	}
	return cols, nil
}

// formatTableDef renders columns back into definition syntax.
func formatTableDef(cols []Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Name + ":" + c.Type.String()
	}
	return strings.Join(parts, ",")
}

func columnIndex(cols []Column, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}
