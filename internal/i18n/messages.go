package i18n

var catalogs = map[string]map[string]string{
	LocaleVI: {
		"error.bad_request":              "Yêu cầu không hợp lệ",
		"error.missing_required":         "Thiếu thông tin bắt buộc",
		"error.otp_type_invalid":         "Loại OTP không hợp lệ",
		"error.otp_method_invalid":       "Phương thức gửi không hợp lệ",
		"error.otp_format_invalid":       "Mã OTP phải có 6 chữ số",
		"error.otp_too_frequent":         "Vui lòng đợi %d giây trước khi gửi lại",
		"error.otp_create_failed":        "Không thể tạo mã OTP",
		"error.otp_not_found":            "Mã OTP không tồn tại hoặc đã hết hạn",
		"error.otp_expired":              "Mã OTP đã hết hạn. Vui lòng yêu cầu mã mới.",
		"error.otp_attempts_exceeded":    "Quá nhiều lần thử. Vui lòng yêu cầu mã mới.",
		"error.otp_mismatch":             "Mã OTP không đúng. Còn %d lần thử.",
		"error.sms_send_failed":          "Không thể gửi tin nhắn SMS",
		"error.internal":                 "Đã có lỗi xảy ra. Vui lòng thử lại.",
		"error.unauthorized":             "Bạn cần đăng nhập để tiếp tục",
		"error.forbidden":                "Bạn không có quyền thực hiện thao tác này",
		"error.not_found":                "Không tìm thấy dữ liệu",
		"error.leave_date_range_invalid": "Ngày bắt đầu không thể sau ngày kết thúc",
		"error.leave_date_invalid":       "Ngày không hợp lệ (định dạng YYYY-MM-DD)",
		"error.leave_reason_required":    "Vui lòng nhập lý do nghỉ",
		"error.leave_cancel_not_allowed": "Chỉ có thể hủy đơn đang chờ duyệt",
		"error.leave_not_pending":        "Đơn đã được xử lý",
		"error.leave_status_invalid":     "Trạng thái duyệt không hợp lệ",
		"error.setting_not_found":        "Không tìm thấy cấu hình",
		"error.setting_value_invalid":    "Giá trị cấu hình không hợp lệ",
		"error.captcha_required":         "Vui lòng nhập mã xác nhận",
		"error.captcha_invalid":          "Mã xác nhận không đúng",
		"error.captcha_config_invalid":   "Cấu hình mã xác nhận không hợp lệ",
		"error.rate_limited":             "Bạn thao tác quá nhanh, vui lòng thử lại sau %d giây",
		"error.sms_not_configured":       "Dịch vụ SMS chưa được cấu hình",
		"error.email_send_failed":        "Không thể gửi email xác thực",
		"error.sms_account_unsupported":  "Nhà cung cấp SMS không hỗ trợ tra cứu tài khoản",

		"message.otp_sent_email":     "Mã OTP đã được gửi đến email của bạn",
		"message.otp_sent_sms":       "Mã OTP đã được gửi đến số điện thoại của bạn",
		"message.otp_verified":       "Xác thực thành công",
		"message.leave_created":      "Tạo đơn xin nghỉ thành công",
		"message.leave_cancelled":    "Đã hủy đơn xin nghỉ",
		"message.leave_approved":     "Đã duyệt đơn xin nghỉ",
		"message.leave_rejected":     "Đã từ chối đơn xin nghỉ",
		"message.setting_updated":    "Cập nhật thành công!",

		"email.otp.subject":                "Mã xác thực %s",
		"email.otp.body":                   "Mã OTP của bạn là: %s\n\nMã dùng để %s và có hiệu lực trong %d phút. Vui lòng không chia sẻ mã này.",
		"email.otp.purpose.register":       "đăng ký tài khoản",
		"email.otp.purpose.reset_password": "đặt lại mật khẩu",
		"email.otp.purpose.login":          "đăng nhập",
		"email.otp.purpose.default":        "xác thực",
	},
	LocaleEN: {
		"error.bad_request":              "Invalid request",
		"error.missing_required":         "Missing required information",
		"error.otp_type_invalid":         "Invalid OTP type",
		"error.otp_method_invalid":       "Invalid delivery method",
		"error.otp_format_invalid":       "OTP must be 6 digits",
		"error.otp_too_frequent":         "Please wait %d seconds before requesting again",
		"error.otp_create_failed":        "Could not create OTP",
		"error.otp_not_found":            "OTP does not exist or has expired",
		"error.otp_expired":              "OTP has expired. Please request a new one.",
		"error.otp_attempts_exceeded":    "Too many attempts. Please request a new one.",
		"error.otp_mismatch":             "Incorrect OTP. %d attempts left.",
		"error.sms_send_failed":          "Could not send SMS",
		"error.internal":                 "Something went wrong. Please try again.",
		"error.unauthorized":             "Please sign in to continue",
		"error.forbidden":                "You are not allowed to do this",
		"error.not_found":                "Not found",
		"error.leave_date_range_invalid": "Start date cannot be after end date",
		"error.leave_date_invalid":       "Invalid date (expected YYYY-MM-DD)",
		"error.leave_reason_required":    "Please enter a reason",
		"error.leave_cancel_not_allowed": "Only pending requests can be cancelled",
		"error.leave_not_pending":        "Request has already been reviewed",
		"error.leave_status_invalid":     "Invalid review status",
		"error.setting_not_found":        "Setting not found",
		"error.setting_value_invalid":    "Invalid setting value",
		"error.captcha_required":         "Captcha is required",
		"error.captcha_invalid":          "Captcha is incorrect",
		"error.captcha_config_invalid":   "Captcha is misconfigured",
		"error.rate_limited":             "Too many requests, please try again in %d seconds",
		"error.sms_not_configured":       "SMS service not configured",
		"error.email_send_failed":        "Could not send verification email",
		"error.sms_account_unsupported":  "SMS provider does not expose account info",

		"message.otp_sent_email":  "OTP has been sent to your email",
		"message.otp_sent_sms":    "OTP has been sent to your phone",
		"message.otp_verified":    "Verified successfully",
		"message.leave_created":   "Leave request created",
		"message.leave_cancelled": "Leave request cancelled",
		"message.leave_approved":  "Leave request approved",
		"message.leave_rejected":  "Leave request rejected",
		"message.setting_updated": "Updated successfully!",

		"email.otp.subject":                "Verification code for %s",
		"email.otp.body":                   "Your OTP is: %s\n\nIt is used for %s and expires in %d minutes. Do not share it.",
		"email.otp.purpose.register":       "registration",
		"email.otp.purpose.reset_password": "password reset",
		"email.otp.purpose.login":          "sign in",
		"email.otp.purpose.default":        "verification",
	},
}
