package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{
			name:       "postgres named constraint",
			err:        errors.New(`pq: duplicate key value violates unique constraint "idx_purchase_buyer_model"`),
			constraint: "idx_purchase_buyer_model",
			want:       true,
		},
		{
			name:       "sqlite phrasing without constraint name",
			err:        errors.New("UNIQUE constraint failed: purchase_records.model_id, purchase_records.buyer_id"),
			constraint: "idx_purchase_buyer_model",
			want:       true,
		},
		{
			name: "postgres phrasing no name given",
			err:  errors.New("pq: duplicate key value violates unique constraint"),
			want: true,
		},
		{
			name:       "unrelated error",
			err:        errors.New("connection refused"),
			constraint: "idx_purchase_buyer_model",
			want:       false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tt.err, tt.constraint, got, tt.want)
			}
		})
	}
}
