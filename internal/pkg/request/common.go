package request

// ListParams holds the pagination and sort parameters shared by list
// endpoints.
type ListParams struct {
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=ASC DESC asc desc"`
}

// ByBookingIDRequest matches endpoints keyed by a human-readable booking
// reference (e.g. "BK042").
type ByBookingIDRequest struct {
	BookingID string `uri:"id" binding:"required,alphanum,min=3,max=16"`
}

// ByRoomNumberRequest matches endpoints keyed by a room number.
type ByRoomNumberRequest struct {
	RoomNumber string `uri:"number" binding:"required,alphanum,max=10"`
}

// ByNumericIDRequest matches endpoints keyed by a numeric primary key
// (room types, notifications, users).
type ByNumericIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}
