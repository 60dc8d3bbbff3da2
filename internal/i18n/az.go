// Package i18n holds the Azerbaijani user-facing strings emitted by the
// service. The UI is single-locale, so these are plain constants rather
// than a translation layer.
package i18n

const (
	// Validation messages for the Today entry tables.
	MsgFillAllFields        = "Məhsul, miqdar və qiyməti doldurun."
	MsgInsufficientStockFmt = `"%s" üçün kifayət qədər məhsul yoxdur.`

	// Product management.
	MsgProductNameEmpty = "Məhsul adı boş ola bilməz"
	MsgProductExists    = "Bu adda məhsul artıq mövcuddur"
	MsgProductsLoadFail = "Məhsullar yüklənmədi"
	MsgRenameFail       = "Ad dəyişdirilə bilmədi"
	MsgStatusChangeFail = "Status dəyişdirilə bilmədi"

	// Analysis range view.
	MsgBadDateRange = "Başlanğıc tarixi bitiş tarixindən sonra ola bilməz."

	// Placeholder for ledger rows whose product is absent from the active
	// products lookup (hidden or deleted upstream).
	UnknownProduct = "Naməlum"
)
