package messages

// ─── Booking ─────────────────────────────────────────────────────────────────

const (
	BookingConfirmedTitle = "Đặt chỗ thành công"
	BookingConfirmedBody  = "Bạn đã đặt '%s' cho khung giờ %s."

	BookingChangedTitle = "Đặt chỗ đã thay đổi"
	BookingChangedBody  = "Đặt chỗ '%s' của bạn đã được cập nhật."

	BookingCancelledTitle = "Đặt chỗ đã bị hủy"
	BookingCancelledBody  = "Đặt chỗ '%s' của bạn đã bị hủy."
)

// ─── Shop ────────────────────────────────────────────────────────────────────

const (
	OrderPlacedTitle = "Đơn hàng mới"
	OrderPlacedBody  = "Đơn hàng %s của bạn đã được ghi nhận."

	OrderStatusChangedTitle = "Trạng thái đơn hàng thay đổi"
	OrderStatusChangedBody  = "Đơn hàng %s đã chuyển sang trạng thái %s."
)

// ─── Forms ───────────────────────────────────────────────────────────────────

const (
	FormSubmittedTitle = "Biểu mẫu mới cần xử lý"
	FormSubmittedBody  = "Biểu mẫu '%s' do %s gửi đang chờ bạn xử lý."

	FormApprovedTitle = "Biểu mẫu đã được duyệt"
	FormApprovedBody  = "Biểu mẫu '%s' của bạn đã được phê duyệt."
)

// ─── Batch ───────────────────────────────────────────────────────────────────

const (
	DailyReminderTitle = "Nhắc nhở hằng ngày"
	DailyReminderBody  = "Bạn có thông báo và công việc đang chờ trên cổng nội bộ."
)
