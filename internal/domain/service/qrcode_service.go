package service

// QRCodeService renders the verification code embedded in vaccination
// certificates.
type QRCodeService interface {
	// GenerateCertificateQR encodes the certificate reference as a PNG.
	GenerateCertificateQR(residentID, petID string) ([]byte, error)

	// ParseCertificateQR decodes a scanned payload back into its reference.
	ParseCertificateQR(qrData string) (residentID, petID string, err error)
}
