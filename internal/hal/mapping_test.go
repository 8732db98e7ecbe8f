// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hal

import (
	"testing"
)

func TestMapDomain(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"0.phys", "Physique"},
		{"1.info.info-ai", "Intelligence artificielle"},
		{"1.sdv.neu", "Neurosciences"},
		{"9.unknown", "Domaine non défini"},
		{"", "Domaine non défini"},
	}
	for _, tt := range tests {
		if got := MapDomain(tt.code); got != tt.want {
			t.Errorf("MapDomain(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestMapDocType(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"ART", "Article de journal"},
		{"THESE", "Thèse"},
		{"", "Type non défini"},
		{"WEIRD", "Type non défini (WEIRD)"},
	}
	for _, tt := range tests {
		if got := MapDocType(tt.code); got != tt.want {
			t.Errorf("MapDocType(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestDomainCodeReverse(t *testing.T) {
	code, ok := DomainCode("physique")
	if !ok || code != "0.phys" {
		t.Errorf("DomainCode(physique) = %q, %v", code, ok)
	}
	if _, ok := DomainCode("no such domain"); ok {
		t.Error("DomainCode matched an unknown label")
	}
}

func TestDocTypeCodeReverse(t *testing.T) {
	code, ok := DocTypeCode("Article de journal")
	if !ok || code != "ART" {
		t.Errorf("DocTypeCode = %q, %v", code, ok)
	}
}

func TestLinkedDocTypes(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"plain types pass through", []string{"ART", "COMM"}, []string{"ART", "COMM"}},
		{"doctorant restricts to THESE", []string{"THESE_DOCTORANT"}, []string{"THESE"}},
		{
			"THESE expands to HDR codes",
			[]string{"THESE"},
			[]string{"THESE", "HDR", "HABDIR", "HABIL", "HABILITATION", "HDR_SOUTENANCE", "HDR_DEFENSE", "MEMHDR"},
		},
		{
			"THESE_HDR selects only HDR codes",
			[]string{"THESE_HDR"},
			[]string{"HDR", "HABDIR", "HABIL", "HABILITATION", "HDR_SOUTENANCE", "HDR_DEFENSE", "MEMHDR"},
		},
		{
			"no duplicates on overlap",
			[]string{"THESE", "THESE_HDR", "ART"},
			[]string{"THESE", "HDR", "HABDIR", "HABIL", "HABILITATION", "HDR_SOUTENANCE", "HDR_DEFENSE", "MEMHDR", "ART"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinkedDocTypes(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("LinkedDocTypes(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("LinkedDocTypes(%v)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDomainsSorted(t *testing.T) {
	domains := Domains()
	if len(domains) != len(domainLabels) {
		t.Fatalf("Domains() returned %d entries, want %d", len(domains), len(domainLabels))
	}
	for i := 1; i < len(domains); i++ {
		if domains[i-1][0] >= domains[i][0] {
			t.Errorf("Domains() not sorted at %d: %q >= %q", i, domains[i-1][0], domains[i][0])
		}
	}
}
