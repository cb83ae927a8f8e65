package messages

import "fmt"

// ===========================================================================
// Message Table
// Bảng thông báo trả về cho client, đánh số theo mã (numeric code)
// FE hiển thị trực tiếp Message, có thể dùng Code để dịch lại nếu cần
// ===========================================================================

// Code mã thông báo
type Code int

const (
	// Thành công
	Success        Code = 1
	CreateSuccess  Code = 2
	UpdateSuccess  Code = 3
	DeleteSuccess  Code = 4
	ToggleSuccess  Code = 5
	LoginSuccess   Code = 6
	LogoutSuccess  Code = 7
	ApproveSuccess Code = 8
	RejectSuccess  Code = 9
	CancelSuccess  Code = 10

	// Xác thực / phân quyền
	Unauthorized       Code = 20
	Forbidden          Code = 21
	InvalidCredentials Code = 22
	AccountDisabled    Code = 23
	TokenExpired       Code = 24
	InvalidToken       Code = 25

	// Validate dữ liệu
	RequiredFields   Code = 30
	InvalidInput     Code = 31
	DateInPast       Code = 32
	InvalidDateRange Code = 33
	InvalidDuration  Code = 34
	InvalidQuantity  Code = 35
	InvalidAmount    Code = 36
	InvalidDiscount  Code = 37
	InvalidPhone     Code = 38
	InvalidStatus    Code = 39
	InvalidShift     Code = 40
	InvalidTime      Code = 41
	InvalidPrice     Code = 42
	InvalidRole      Code = 43

	// Không tìm thấy
	UserNotFound                Code = 50
	PatientNotFound             Code = 51
	DentistNotFound             Code = 52
	ScheduleNotFound            Code = 53
	AppointmentNotFound         Code = 54
	ProcedureNotFound           Code = 55
	SuppliesNotFound            Code = 56
	WarrantyNotFound            Code = 57
	TreatmentRecordNotFound     Code = 58
	TreatmentProgressNotFound   Code = 59
	PrescriptionNotFound        Code = 60
	InstructionTemplateNotFound Code = 61
	NotificationNotFound        Code = 62
	KnowledgeNotFound           Code = 63
	PromotionNotFound           Code = 64
	TransactionNotFound         Code = 65
	InstructionNotFound         Code = 66

	// Xung đột nghiệp vụ
	ScheduleExists            Code = 70
	ScheduleNotPending        Code = 71
	NotScheduleOwner          Code = 72
	AppointmentNotCancellable Code = 73
	ProcedureExists           Code = 74
	SuppliesExists            Code = 75
	WarrantyExists            Code = 76
	PrescriptionExists        Code = 77
	InstructionExists         Code = 78
	PhoneExists               Code = 79
	EmailExists               Code = 80
	TransactionConfirmed      Code = 81
	CannotDisableSelf         Code = 82
	NotOwnResource            Code = 83

	// Chatbot
	NoAnswer Code = 90

	// Lỗi hệ thống
	InternalError Code = 99
)

var texts = map[Code]string{
	Success:        "Thao tác thành công",
	CreateSuccess:  "Tạo mới thành công",
	UpdateSuccess:  "Cập nhật thành công",
	DeleteSuccess:  "Xóa thành công",
	ToggleSuccess:  "Thay đổi trạng thái thành công",
	LoginSuccess:   "Đăng nhập thành công",
	LogoutSuccess:  "Đăng xuất thành công",
	ApproveSuccess: "Duyệt thành công",
	RejectSuccess:  "Từ chối thành công",
	CancelSuccess:  "Hủy thành công",

	Unauthorized:       "Bạn cần đăng nhập để thực hiện chức năng này",
	Forbidden:          "Bạn không có quyền thực hiện chức năng này",
	InvalidCredentials: "Email/số điện thoại hoặc mật khẩu không đúng",
	AccountDisabled:    "Tài khoản đã bị khóa",
	TokenExpired:       "Phiên đăng nhập đã hết hạn",
	InvalidToken:       "Token không hợp lệ",

	RequiredFields:   "Vui lòng nhập đầy đủ thông tin",
	InvalidInput:     "Dữ liệu không hợp lệ",
	DateInPast:       "Ngày không được nhỏ hơn ngày hiện tại",
	InvalidDateRange: "Ngày kết thúc phải sau ngày bắt đầu",
	InvalidDuration:  "Thời hạn phải lớn hơn 0",
	InvalidQuantity:  "Số lượng không hợp lệ",
	InvalidAmount:    "Số tiền phải lớn hơn 0",
	InvalidDiscount:  "Mức giảm giá phải nằm trong khoảng 0 - 100",
	InvalidPhone:     "Số điện thoại không hợp lệ",
	InvalidStatus:    "Trạng thái không hợp lệ",
	InvalidShift:     "Ca làm việc không hợp lệ",
	InvalidTime:      "Thời gian không hợp lệ",
	InvalidPrice:     "Giá không hợp lệ",
	InvalidRole:      "Vai trò không hợp lệ",

	UserNotFound:                "Không tìm thấy người dùng",
	PatientNotFound:             "Không tìm thấy bệnh nhân",
	DentistNotFound:             "Không tìm thấy nha sĩ",
	ScheduleNotFound:            "Không tìm thấy lịch làm việc",
	AppointmentNotFound:         "Không tìm thấy lịch hẹn",
	ProcedureNotFound:           "Không tìm thấy thủ thuật",
	SuppliesNotFound:            "Không tìm thấy vật tư",
	WarrantyNotFound:            "Không tìm thấy thẻ bảo hành",
	TreatmentRecordNotFound:     "Không tìm thấy hồ sơ điều trị",
	TreatmentProgressNotFound:   "Không tìm thấy tiến trình điều trị",
	PrescriptionNotFound:        "Không tìm thấy đơn thuốc",
	InstructionTemplateNotFound: "Không tìm thấy mẫu chỉ dẫn",
	NotificationNotFound:        "Không tìm thấy thông báo",
	KnowledgeNotFound:           "Không tìm thấy dữ liệu chatbot",
	PromotionNotFound:           "Không tìm thấy chương trình khuyến mãi",
	TransactionNotFound:         "Không tìm thấy phiếu thu chi",
	InstructionNotFound:         "Không tìm thấy chỉ dẫn",

	ScheduleExists:            "Lịch làm việc đã tồn tại",
	ScheduleNotPending:        "Chỉ có thể thao tác với lịch đang chờ duyệt",
	NotScheduleOwner:          "Bạn chỉ có thể hủy lịch của chính mình",
	AppointmentNotCancellable: "Lịch hẹn không thể hủy",
	ProcedureExists:           "Thủ thuật đã tồn tại",
	SuppliesExists:            "Vật tư đã tồn tại",
	WarrantyExists:            "Thẻ bảo hành cho hồ sơ điều trị này đã tồn tại",
	PrescriptionExists:        "Đơn thuốc cho lịch hẹn này đã tồn tại",
	InstructionExists:         "Chỉ dẫn cho lịch hẹn này đã tồn tại",
	PhoneExists:               "Số điện thoại đã được sử dụng",
	EmailExists:               "Email đã được sử dụng",
	TransactionConfirmed:      "Phiếu thu chi đã được duyệt",
	CannotDisableSelf:         "Không thể khóa tài khoản của chính mình",
	NotOwnResource:            "Bạn chỉ có thể xem dữ liệu của chính mình",

	NoAnswer: "Xin lỗi, hiện tại tôi chưa có câu trả lời cho câu hỏi này. Vui lòng liên hệ lễ tân để được hỗ trợ.",

	InternalError: "Đã có lỗi xảy ra, vui lòng thử lại sau",
}

// Text trả về nội dung thông báo của mã
func (c Code) Text() string {
	if t, ok := texts[c]; ok {
		return t
	}
	return texts[InternalError]
}

// Int trả về mã dạng số
func (c Code) Int() int {
	return int(c)
}

func (c Code) String() string {
	return fmt.Sprintf("MSG%02d", int(c))
}

// All trả về toàn bộ bảng thông báo
func All() map[Code]string {
	out := make(map[Code]string, len(texts))
	for k, v := range texts {
		out[k] = v
	}
	return out
}
