package model

import "bengkel/shared/dto"

// Sortable lists the booking columns a listing may be ordered by.
var Sortable = dto.SortableColumns{"created_at", "scheduled_at", FieldStatus, FieldCompletedAt}
