package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

// migrateProofFiles moves legacy inline base64 payment proofs out of the
// database and onto disk, recording the filename on the payment row. Payments
// that already have a filename are skipped, so the migration can be re-run.
func migrateProofFiles(db *gorm.DB, proofDir string, logger *zap.Logger) error {
	if err := os.MkdirAll(proofDir, 0o755); err != nil {
		return fmt.Errorf("create proof dir: %w", err)
	}

	var payments []models.Payment
	if err := db.Where("proof_base64 IS NOT NULL AND proof_filename IS NULL").
		Find(&payments).Error; err != nil {
		return err
	}

	migrated := 0
	for i := range payments {
		p := &payments[i]
		data, ext, err := decodeProof(*p.ProofBase64)
		if err != nil {
			logger.Warn("Skipping payment with undecodable proof",
				zap.Uint("payment_id", p.ID), zap.Error(err))
			continue
		}

		filename := fmt.Sprintf("payment_%d%s", p.ID, ext)
		if err := os.WriteFile(filepath.Join(proofDir, filename), data, 0o644); err != nil {
			return fmt.Errorf("write proof for payment %d: %w", p.ID, err)
		}

		if err := db.Model(p).Updates(map[string]interface{}{
			"proof_filename": filename,
			"proof_base64":   nil,
		}).Error; err != nil {
			return fmt.Errorf("update payment %d: %w", p.ID, err)
		}
		migrated++
	}

	logger.Info("Proof migration finished",
		zap.Int("migrated", migrated),
		zap.Int("candidates", len(payments)))
	return nil
}

// decodeProof handles both raw base64 and data-URI payloads.
func decodeProof(payload string) ([]byte, string, error) {
	ext := ".jpg"
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		if strings.Contains(parts[0], "image/png") {
			ext = ".png"
		}
		payload = parts[1]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, ext, nil
}
