package scan

import (
	"errors"
	"testing"
)

func TestCheckImageTree_CleanSource(t *testing.T) {
	source := `/dts-v1/;

/ {
	images {
		fdt-board-a {
			description = "Board A blob";
		};
	};

	configurations {
		default = "conf-board-a";

		conf-board-a {
			compatible = "qcom,board-a";
			fdt = "fdt-board-a";
		};
	};
};
`

	if err := CheckImageTree([]byte(source)); err != nil {
		t.Fatalf("Expected clean source to pass the gate, got: %v", err)
	}
}

func TestCheckImageTree_MissingOpeningBrace(t *testing.T) {
	source := `/ {
	configurations {
		conf-board-a
			compatible = "qcom,board-a";
		};
	};
};
`

	err := CheckImageTree([]byte(source))
	if err == nil {
		t.Fatal("Expected a structural error, got nil")
	}

	var structural StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Expected StructuralError, got %T", err)
	}
	if structural.Line != 3 {
		t.Errorf("Expected violation on line 3, got %d", structural.Line)
	}
	if structural.Message != "configuration node missing opening brace" {
		t.Errorf("Unexpected message: %q", structural.Message)
	}
}

func TestCheckImageTree_MissingTrailingSemicolon(t *testing.T) {
	source := `/ {
	configurations {
		conf-board-a {
			compatible = "qcom,board-a"
		};
	};
};
`

	err := CheckImageTree([]byte(source))
	if err == nil {
		t.Fatal("Expected a structural error, got nil")
	}

	var structural StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Expected StructuralError, got %T", err)
	}
	if structural.Line != 4 {
		t.Errorf("Expected violation on line 4, got %d", structural.Line)
	}
	if structural.Message != "property assignment missing trailing semicolon" {
		t.Errorf("Unexpected message: %q", structural.Message)
	}
}

func TestCheckImageTree_AssignmentOutsideConfiguration(t *testing.T) {
	// The semicolon rule only applies inside a configuration node.
	source := `/ {
	images {
		fdt-board-a {
			compatible = "qcom,board-a"
		};
	};
};
`

	if err := CheckImageTree([]byte(source)); err != nil {
		t.Fatalf("Expected assignments outside configurations to pass, got: %v", err)
	}
}

func TestCheckImageTree_DefaultAssignmentIsNotAMarker(t *testing.T) {
	// default = "conf-..." mentions a configuration name but assigns a
	// property; it must not trip the opening-brace rule.
	source := `/ {
	configurations {
		default = "conf-board-a";
	};
};
`

	if err := CheckImageTree([]byte(source)); err != nil {
		t.Fatalf("Expected default assignment to pass the gate, got: %v", err)
	}
}

func TestCheckImageTree_FirstViolationWins(t *testing.T) {
	source := `/ {
	configurations {
		conf-a
		conf-b
	};
};
`

	err := CheckImageTree([]byte(source))
	if err == nil {
		t.Fatal("Expected a structural error, got nil")
	}

	var structural StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("Expected StructuralError, got %T", err)
	}
	if structural.Line != 3 {
		t.Errorf("Expected the first violation on line 3, got %d", structural.Line)
	}
}

func TestFallbackImages(t *testing.T) {
	source := `images {
	kernel-1 {
	};
fdt-board-a {
	};
		fdt-board-b { // trailing note
	};
	fdt-label: {
	};
	fdt = "fdt-board-a";
	fdt-dangling
};
`

	images := FallbackImages([]byte(source))

	expected := []struct {
		name string
		line int
	}{
		{"fdt-board-a", 4},
		{"fdt-board-b", 6},
		{"fdt-label", 8},
	}

	if len(images) != len(expected) {
		t.Fatalf("Expected %d images, got %d: %v", len(expected), len(images), images)
	}
	for i, want := range expected {
		if images[i].Name != want.name {
			t.Errorf("Image %d: expected name '%s', got '%s'", i, want.name, images[i].Name)
		}
		if images[i].Line != want.line {
			t.Errorf("Image %d: expected line %d, got %d", i, want.line, images[i].Line)
		}
	}
}

func TestFallbackImages_NoMatches(t *testing.T) {
	source := `/ {
	images {
		kernel-1 {
		};
	};
};
`

	if images := FallbackImages([]byte(source)); len(images) != 0 {
		t.Errorf("Expected no fallback images, got %v", images)
	}
}
