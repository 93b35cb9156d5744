package repository

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Entity code prefixes. Codes are short human-readable secondary keys
// (PRD000001, STK000001, SAL000001) shown alongside the UUID primary key.
const (
	CodePrefixProduct  = "PRD"
	CodePrefixMovement = "STK"
	CodePrefixSale     = "SAL"
)

// Postgres sequence backing each prefix. The sequence serializes the happy
// path across writers and restarts; a process-local counter would do neither.
var codeSequences = map[string]string{
	CodePrefixProduct:  "seq_product_code",
	CodePrefixMovement: "seq_movement_code",
	CodePrefixSale:     "seq_sale_code",
}

// CodeGenerator issues collision-free human-readable codes for a prefix.
// The uniqueness check spans the code columns of all three ledger tables, not
// just the local sequence, so a manually-seeded PRD000001 is never reissued.
type CodeGenerator interface {
	Next(tx *gorm.DB, prefix string) (string, error)
}

type codeGenerator struct{ db *gorm.DB }

func NewCodeGenerator(db *gorm.DB) CodeGenerator { return &codeGenerator{db: db} }

// maxCodeAttempts bounds the collision-retry loop. The sequence only ever
// moves forward, so more than a handful of collisions means manually inserted
// codes ran ahead of it; the fallback path covers that.
const maxCodeAttempts = 10

// Next returns the next free code for the prefix. Primary strategy: advance
// the prefix's Postgres sequence and format the value zero-padded to six
// digits, retrying while the candidate exists in any of the three tables.
// Fallback (sequence unavailable): timestamp-plus-random best-effort code.
//
// Known gap: the existence check and the later insert are not one atomic
// step, so two writers bypassing the sequence (fallback path) can still race;
// the unique index on each code column turns that race into an insert error
// rather than silent duplication.
func (g *codeGenerator) Next(tx *gorm.DB, prefix string) (string, error) {
	seq, ok := codeSequences[prefix]
	if !ok {
		return "", fmt.Errorf("codegen: unknown prefix %q", prefix)
	}
	db := tx
	if db == nil {
		db = g.db
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		var n int64
		if err := db.Raw("SELECT nextval(?)", seq).Scan(&n).Error; err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("codegen: sequence unavailable, using fallback")
			return FallbackCode(prefix), nil
		}
		code := FormatCode(prefix, n)

		exists, err := codeExists(db, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("codegen: no free code for prefix %q after %d attempts", prefix, maxCodeAttempts)
}

// FormatCode renders prefix plus the counter zero-padded to six digits.
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s%06d", prefix, n)
}

// FallbackCode builds a best-effort unique code from the last six digits of
// the current unix-nano timestamp plus a three-digit random suffix.
func FallbackCode(prefix string) string {
	ts := time.Now().UnixNano() % 1000000
	return fmt.Sprintf("%s%06d%03d", prefix, ts, rand.Intn(1000))
}

// codeExists checks the candidate against the code columns of products,
// stock_movements and sales combined.
func codeExists(db *gorm.DB, code string) (bool, error) {
	var exists bool
	err := db.Raw(`
		SELECT EXISTS (
			SELECT 1 FROM products WHERE code = @code
			UNION ALL
			SELECT 1 FROM stock_movements WHERE code = @code
			UNION ALL
			SELECT 1 FROM sales WHERE code = @code
		)`, map[string]interface{}{"code": code}).Scan(&exists).Error
	return exists, err
}
