package dataset

// Role classifies a column for the aggregation controls.
type Role string

const (
	// Categorical columns hold at least one non-numeric value and may be grouped.
	Categorical Role = "categorical"
	// Numeric columns hold only numbers or missing values and may be aggregated.
	Numeric Role = "numeric"
)

// ColumnRole pairs a column name with its role.
type ColumnRole struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Roles classifies every column of ds in column order.
func Roles(ds Dataset) []ColumnRole {
	roles := make([]ColumnRole, 0, len(ds.columns))
	for _, c := range ds.columns {
		roles = append(roles, ColumnRole{Name: c, Role: ds.RoleOf(c)})
	}
	return roles
}

// RoleOf classifies a single column. An all-missing column is numeric.
func (d Dataset) RoleOf(column string) Role {
	for _, rec := range d.records {
		v := rec[column]
		if IsMissing(v) {
			continue
		}
		if _, ok := ToFloat(v); !ok {
			return Categorical
		}
	}
	return Numeric
}

// NamesWithRole filters roles down to the column names with the given role.
func NamesWithRole(roles []ColumnRole, role Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.Role == role {
			names = append(names, r.Name)
		}
	}
	return names
}
