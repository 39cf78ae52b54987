package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Limit: DefaultLimit}},
		{PageRequest{Limit: -5, Offset: -1}, PageRequest{Limit: DefaultLimit}},
		{PageRequest{Limit: 500, Offset: 40}, PageRequest{Limit: MaxLimit, Offset: 40}},
		{PageRequest{Limit: 10, Offset: 30}, PageRequest{Limit: 10, Offset: 30}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
}

func TestNewPageResponse(t *testing.T) {
	p := PageRequest{Limit: 10, Offset: 20}
	assert.Equal(t, PageResponse{Limit: 10, Offset: 20, HasMore: true}, NewPageResponse(p, 10))
	assert.False(t, NewPageResponse(p, 3).HasMore)
	assert.False(t, NewPageResponse(PageRequest{}, 0).HasMore)
}
