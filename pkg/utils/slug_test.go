package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Open Tickets", "open-tickets"},
		{"  Weekly SLA: Summary!  ", "weekly-sla-summary"},
		{"P1/P2 incidents (EMEA)", "p1-p2-incidents-emea"},
		{"***", "report"},
		{"", "report"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in, "report"), tt.in)
	}
}
