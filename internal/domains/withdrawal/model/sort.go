package model

import "bengkel/shared/dto"

var Sortable = dto.SortableColumns{"created_at", "amount", FieldStatus, FieldProcessedAt}
