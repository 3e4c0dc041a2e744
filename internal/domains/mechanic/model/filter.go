package model

import "bengkel/shared/dto"

// AvailableFilter selects online, verified mechanics with known coordinates, optionally limited to ids.
func AvailableFilter(ids []string) dto.FilterGroup {
	filters := []any{
		dto.Filter{Field: FieldStatus, Value: StatusOnline, Operator: dto.FilterOperatorEq, Table: TableName},
		dto.Filter{Field: FieldIsVerified, Value: true, Operator: dto.FilterOperatorEq, Table: TableName},
		dto.Filter{Field: FieldLatitude, Operator: dto.FilterIsNotNull, Table: TableName},
		dto.Filter{Field: FieldLongitude, Operator: dto.FilterIsNotNull, Table: TableName},
	}

	if ids != nil {
		filters = append(filters, dto.Filter{Field: FieldID, Value: ids, Operator: dto.FilterOperatorIn, Table: TableName})
	}

	return dto.FilterGroup{Filters: filters, Operator: dto.FilterGroupOperatorAnd}
}
