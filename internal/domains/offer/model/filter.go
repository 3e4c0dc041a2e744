package model

import "bengkel/shared/dto"

// PendingFilter selects pending offers of a booking, optionally narrowed to one mechanic.
func PendingFilter(bookingID, mechanicID string) dto.FilterGroup {
	filters := []any{
		dto.Filter{Field: FieldBookingID, Value: bookingID, Operator: dto.FilterOperatorEq, Table: TableName},
		dto.Filter{Field: FieldStatus, Value: StatusPending, Operator: dto.FilterOperatorEq, Table: TableName},
	}

	if mechanicID != "" {
		filters = append(filters, dto.Filter{Field: FieldMechanicID, Value: mechanicID, Operator: dto.FilterOperatorEq, Table: TableName})
	}

	return dto.FilterGroup{Filters: filters, Operator: dto.FilterGroupOperatorAnd}
}

// SiblingsFilter selects the other pending offers of a booking. The status argument is renamed
// so it does not collide with the status being written by an update.
func SiblingsFilter(bookingID, offerID string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: FieldBookingID, Value: bookingID, Operator: dto.FilterOperatorEq, Table: TableName},
			dto.Filter{Field: FieldID, Value: offerID, Operator: dto.FilterOperatorNotEq, Table: TableName},
			dto.Filter{ArgName: "current_status", Field: FieldStatus, Value: StatusPending, Operator: dto.FilterOperatorEq, Table: TableName},
		},
		Operator: dto.FilterGroupOperatorAnd,
	}
}
