package dto

// UpdateProfileRequest replaces the lists that are present. An omitted list
// is left unchanged; an empty list clears it.
type UpdateProfileRequest struct {
	Conditions []string `json:"conditions,omitempty" validate:"omitempty,max=30,dive,max=50"`
	Goals      []string `json:"goals,omitempty" validate:"omitempty,max=10,dive,max=50"`
}

// ProfileOptions lists the tags the scoring engine understands
type ProfileOptions struct {
	Conditions []string `json:"conditions"`
	Goals      []string `json:"goals"`
}
