package model

import "bengkel/shared/dto"

// Sortable lists the workshop columns a listing may be ordered by.
var Sortable = dto.SortableColumns{FieldRating, FieldName, FieldTotalReviews, "created_at"}
