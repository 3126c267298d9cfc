package label

import (
	"strconv"
	"strings"
)

// Template placeholders
const (
	CodePlaceholder = "{code}"
	TypePlaceholder = "{type}"
)

// PayloadTemplate builds the lookup URL template for a base URL.
func PayloadTemplate(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/packages/" + CodePlaceholder + "?type=" + TypePlaceholder
}

// FormatPayload substitutes code and type into template. The result is
// not validated; capacity is the encoder's concern.
func FormatPayload(code int, pkgType PackageType, template string) string {
	return strings.NewReplacer(
		CodePlaceholder, strconv.Itoa(code),
		TypePlaceholder, string(pkgType),
	).Replace(template)
}

// LabelText is the human-readable line printed below the symbol.
func LabelText(code int) string {
	return "# " + strconv.Itoa(code)
}
