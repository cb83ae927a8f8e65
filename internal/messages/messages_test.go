package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_KnownCodes(t *testing.T) {
	assert.Equal(t, "Tạo mới thành công", CreateSuccess.Text())
	assert.Equal(t, "Bạn không có quyền thực hiện chức năng này", Forbidden.Text())
	assert.Equal(t, "Đơn thuốc cho lịch hẹn này đã tồn tại", PrescriptionExists.Text())
}

func TestText_UnknownCodeFallsBackToInternalError(t *testing.T) {
	assert.Equal(t, InternalError.Text(), Code(12345).Text())
}

func TestString_Format(t *testing.T) {
	assert.Equal(t, "MSG02", CreateSuccess.String())
	assert.Equal(t, "MSG99", InternalError.String())
}

func TestAll_EveryTextNonEmpty(t *testing.T) {
	all := All()
	assert.NotEmpty(t, all)
	for code, text := range all {
		assert.NotEmptyf(t, text, "code %s has no text", code)
	}
}
