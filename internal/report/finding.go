// Package report collects validation findings and renders them as
// category-tagged lines or as a JSON document, mapping the outcome to
// the process exit status.
package report

import "fmt"

// Category classifies a finding
type Category int

const (
	// CategoryMetadata is a compatible token with no metadata node.
	CategoryMetadata Category = iota
	// CategoryFdtProp is a configuration without any fdt property.
	CategoryFdtProp
	// CategoryFdtName is an fdt reference without the image name prefix.
	CategoryFdtName
	// CategoryFdtLink is an fdt reference naming no defined image.
	CategoryFdtLink
	// CategorySyntax is a fatal syntax failure in either input file.
	CategorySyntax
)

// String returns the tag used in line output
func (c Category) String() string {
	switch c {
	case CategoryMetadata:
		return "METADATA"
	case CategoryFdtProp:
		return "FDT-PROP"
	case CategoryFdtName:
		return "FDT-NAME"
	case CategoryFdtLink:
		return "FDT-LINK"
	case CategorySyntax:
		return "SYNTAX"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON implements json.Marshaler for Category
func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Category
func (c *Category) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	switch str {
	case "METADATA":
		*c = CategoryMetadata
	case "FDT-PROP":
		*c = CategoryFdtProp
	case "FDT-NAME":
		*c = CategoryFdtName
	case "FDT-LINK":
		*c = CategoryFdtLink
	case "SYNTAX":
		*c = CategorySyntax
	default:
		return fmt.Errorf("unknown finding category %q", str)
	}
	return nil
}

// Finding is one validation violation. Configuration is empty for
// syntax findings that concern a whole file rather than a single
// configuration.
type Finding struct {
	Category      Category `json:"category"`
	Configuration string   `json:"configuration,omitempty"`
	Detail        string   `json:"detail"`
}

// String renders the finding as its category-tagged output line
func (f Finding) String() string {
	if f.Configuration == "" {
		return fmt.Sprintf("[%s] %s", f.Category, f.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Category, f.Configuration, f.Detail)
}
