// Package crossref checks configuration records against the two
// authoritative sets extracted from the inputs: metadata node names
// and image node names.
package crossref

import (
	"fmt"
	"strings"

	"github.com/fitlint/fitlint/internal/dts"
	"github.com/fitlint/fitlint/internal/fit/ast"
	"github.com/fitlint/fitlint/internal/report"
)

const (
	// vendorPrefix is stripped from compatible strings before the
	// platform identity is resolved.
	vendorPrefix = "qcom,"
	// imagePrefix is the naming convention every fdt reference must
	// carry.
	imagePrefix = "fdt-"
)

// exemptTokens are identity components allowed to be absent from the
// metadata descriptor. The list is a deliberate suppression, not a
// recovery path.
var exemptTokens = map[string]struct{}{
	"camx":   {},
	"el2kvm": {},
}

// Validator holds the extracted sets. Validation of one configuration
// never affects another.
type Validator struct {
	images   map[string]struct{}
	metadata dts.NodeSet
}

// NewValidator creates a validator over the given image and metadata
// node sets.
func NewValidator(images map[string]struct{}, metadata dts.NodeSet) *Validator {
	return &Validator{images: images, metadata: metadata}
}

// Validate runs both checks over every configuration in order and
// returns the accumulated findings. Neither check short-circuits the
// other.
func (v *Validator) Validate(configs []ast.Configuration) []report.Finding {
	var findings []report.Finding
	for _, cfg := range configs {
		findings = append(findings, v.checkMetadata(cfg)...)
		findings = append(findings, v.checkFdt(cfg)...)
	}
	return findings
}

// checkMetadata resolves the configuration's platform identity against
// the metadata node set. A missing compatible property is not a
// violation; the check simply does not apply.
func (v *Validator) checkMetadata(cfg ast.Configuration) []report.Finding {
	if cfg.Compatible == "" {
		return nil
	}

	identity := strings.TrimPrefix(cfg.Compatible, vendorPrefix)
	if v.identityDefined(identity) {
		return nil
	}

	return []report.Finding{{
		Category:      report.CategoryMetadata,
		Configuration: cfg.Name,
		Detail:        fmt.Sprintf("no metadata node defines '%s'", identity),
	}}
}

// identityDefined reports whether a platform identity is covered by
// the metadata descriptor. The identity passes when the descriptor
// defines it whole, or when every hyphen-separated component is either
// defined or exempt.
func (v *Validator) identityDefined(identity string) bool {
	if v.metadata.Has(identity) || isExempt(identity) {
		return true
	}

	for _, component := range strings.Split(identity, "-") {
		if component == "" {
			continue
		}
		if !v.metadata.Has(component) && !isExempt(component) {
			return false
		}
	}
	return true
}

func isExempt(token string) bool {
	_, ok := exemptTokens[token]
	return ok
}

// checkFdt verifies the configuration's image references. Without any
// reference a single finding is produced; otherwise every reference is
// checked for the naming prefix and for resolving to a defined image,
// independently of each other.
func (v *Validator) checkFdt(cfg ast.Configuration) []report.Finding {
	if len(cfg.FdtRefs) == 0 {
		return []report.Finding{{
			Category:      report.CategoryFdtProp,
			Configuration: cfg.Name,
			Detail:        "no fdt property assigned",
		}}
	}

	var findings []report.Finding
	for _, ref := range cfg.FdtRefs {
		if !strings.HasPrefix(ref, imagePrefix) {
			findings = append(findings, report.Finding{
				Category:      report.CategoryFdtName,
				Configuration: cfg.Name,
				Detail:        fmt.Sprintf("fdt reference '%s' lacks the %s prefix", ref, imagePrefix),
			})
		}
		if _, ok := v.images[ref]; !ok {
			detail := fmt.Sprintf("fdt reference '%s' does not match any image node", ref)
			if hint := bestMatch(ref, v.images); hint != "" {
				detail = fmt.Sprintf("%s (did you mean '%s'?)", detail, hint)
			}
			findings = append(findings, report.Finding{
				Category:      report.CategoryFdtLink,
				Configuration: cfg.Name,
				Detail:        detail,
			})
		}
	}
	return findings
}
