package mail

import (
	"fmt"
	"strings"
)

// VerificationMessage builds the account-verification mail. publicURL is the
// frontend base the confirmation link points at.
func VerificationMessage(publicURL, token string) (subject, body string) {
	subject = "Confirma tu cuenta"
	link := fmt.Sprintf("%s/confirm-email?token=%s", strings.TrimRight(publicURL, "/"), token)
	body = "Gracias por registrarte.\r\n\r\n" +
		"Confirma tu cuenta en las próximas 24 horas:\r\n" + link + "\r\n"
	return subject, body
}

// ResetMessage builds the password-reset mail.
func ResetMessage(publicURL, token string) (subject, body string) {
	subject = "Restablece tu contraseña"
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(publicURL, "/"), token)
	body = "Recibimos una solicitud para restablecer tu contraseña.\r\n\r\n" +
		"El enlace vence en 24 horas:\r\n" + link + "\r\n\r\n" +
		"Si no fuiste tú, ignora este mensaje.\r\n"
	return subject, body
}

// PurchaseLine is one game inside a purchase confirmation.
type PurchaseLine struct {
	Titulo string
	Codigo string
	Monto  float64
}

// PurchaseMessage builds the post-checkout confirmation listing every
// redemption code bought in the order.
func PurchaseMessage(lines []PurchaseLine) (subject, body string) {
	subject = "Confirmación de compra"
	var b strings.Builder
	b.WriteString("Gracias por tu compra. Tus códigos de canje:\r\n\r\n")
	var total float64
	for _, line := range lines {
		fmt.Fprintf(&b, "  %s: %s ($%.2f)\r\n", line.Titulo, line.Codigo, line.Monto)
		total += line.Monto
	}
	fmt.Fprintf(&b, "\r\nTotal pagado: $%.2f\r\n", total)
	return subject, b.String()
}
