package label

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadTemplate(t *testing.T) {
	assert.Equal(t, "http://app.seedtabs.com/packages/{code}?type={type}", PayloadTemplate("http://app.seedtabs.com"))
	assert.Equal(t, "http://app.seedtabs.com/packages/{code}?type={type}", PayloadTemplate("http://app.seedtabs.com/"))
}

func TestFormatPayload(t *testing.T) {
	template := PayloadTemplate("http://app.seedtabs.com")

	assert.Equal(t, "http://app.seedtabs.com/packages/100?type=sample", FormatPayload(100, PackageSample, template))
	assert.Equal(t, "http://app.seedtabs.com/packages/0?type=normal", FormatPayload(0, PackageNormal, template))
}

func TestFormatPayload_ContainsCodeAndType(t *testing.T) {
	template := PayloadTemplate("https://example.org/base")

	for _, code := range []int{0, 1, 9, 10, 99, 100, 12345, 987654321} {
		for _, pkgType := range PackageTypes {
			payload := FormatPayload(code, pkgType, template)
			assert.Contains(t, payload, "/packages/"+strconv.Itoa(code)+"?")
			assert.True(t, strings.HasSuffix(payload, "type="+string(pkgType)), payload)
		}
	}
}

func TestFormatPayload_CustomTemplate(t *testing.T) {
	assert.Equal(t, "x-7-y-normal-7", FormatPayload(7, PackageNormal, "x-{code}-y-{type}-{code}"))
	assert.Equal(t, "no placeholders", FormatPayload(7, PackageNormal, "no placeholders"))
}

func TestLabelText(t *testing.T) {
	assert.Equal(t, "# 100", LabelText(100))
	assert.Equal(t, "# 7", LabelText(7))
	assert.Equal(t, "# 0", LabelText(0))
}

func TestParsePackageType(t *testing.T) {
	pkgType, err := ParsePackageType("sample")
	require.NoError(t, err)
	assert.Equal(t, PackageSample, pkgType)

	pkgType, err = ParsePackageType("normal")
	require.NoError(t, err)
	assert.Equal(t, PackageNormal, pkgType)

	for _, bad := range []string{"", "Sample", "bulk", " normal"} {
		_, err := ParsePackageType(bad)
		assert.ErrorIs(t, err, ErrInvalidPackageType, bad)
	}
}

func TestImageFormat(t *testing.T) {
	assert.Equal(t, "png", FormatPNG.Extension())
	assert.Equal(t, "jpg", FormatJPEG.Extension())
	assert.Equal(t, "image/png", FormatPNG.ContentType())
	assert.Equal(t, "image/jpeg", FormatJPEG.ContentType())

	assert.True(t, Labeled.WithLabel)
	assert.Equal(t, FormatPNG, Labeled.Format)
	assert.False(t, Unlabeled.WithLabel)
	assert.Equal(t, FormatJPEG, Unlabeled.Format)
}
