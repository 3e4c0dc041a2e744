package model

import "bengkel/shared/dto"

var Sortable = dto.SortableColumns{"created_at", FieldRating, FieldTotalJobsCompleted, "experience_years"}
