package qrcode

import (
	"encoding/json"
	"fmt"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	ResidentID string `json:"vecino_id"`
	PetID      string `json:"mascota_id"`
	Type       string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateCertificateQR generates the verification QR embedded in a
// vaccination certificate.
func (s *qrcodeService) GenerateCertificateQR(residentID, petID string) ([]byte, error) {
	data := QRCodeData{
		ResidentID: residentID,
		PetID:      petID,
		Type:       "certificado",
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseCertificateQR parses QR code data and returns the certificate reference.
func (s *qrcodeService) ParseCertificateQR(qrData string) (string, string, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return "", "", fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != "certificado" {
		return "", "", fmt.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.ResidentID == "" || data.PetID == "" {
		return "", "", fmt.Errorf("incomplete certificate reference")
	}

	return data.ResidentID, data.PetID, nil
}
