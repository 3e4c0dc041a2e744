package model

import "bengkel/shared/dto"

// Sortable lists the service columns a listing may be ordered by.
var Sortable = dto.SortableColumns{"created_at", FieldName, "base_price"}
