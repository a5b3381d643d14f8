package ast

// Document holds the flat record sets extracted from an image tree source
// file. Only node identity and the two properties the validator consumes are
// preserved; the full tree shape is deliberately discarded.
type Document struct {
	Images         []Image
	Configurations []Configuration
}

// Image is one node defined under the images block.
type Image struct {
	Name string
	Line int
}

// Configuration is one child node of the configurations block.
type Configuration struct {
	Name string
	Line int

	// Compatible is the first quoted string of the first compatible
	// assignment. Empty when the property is absent.
	Compatible string

	// FdtRefs holds every quoted fdt reference in declaration order.
	FdtRefs []string
}

// ImageSet returns the image node names as a membership set.
func (d *Document) ImageSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Images))
	for _, img := range d.Images {
		set[img.Name] = struct{}{}
	}
	return set
}

// HasImages reports whether the primary extraction found any image nodes.
func (d *Document) HasImages() bool {
	return len(d.Images) > 0
}
