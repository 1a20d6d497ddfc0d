package model

import "github.com/google/uuid"

// VendorProfile is the role profile of a vendor, shown in the directory.
type VendorProfile struct {
	ID       uuid.UUID `json:"id"`
	ShopName string    `json:"shop_name"`
	Phone    string    `json:"phone"`
	Location string    `json:"location"`
	PhotoURL string    `json:"photo_url"`
}

// VendorOwner is the slice of the users row joined into a listing.
type VendorOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VendorListing is a vendor profile joined with its user record.
type VendorListing struct {
	VendorProfile
	User *VendorOwner `json:"users"`
}

// VendorPatch carries the fields a vendor update may change; nil means untouched.
type VendorPatch struct {
	ShopName *string `json:"shop_name,omitempty" validate:"omitempty,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
	PhotoURL *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

// Empty reports whether the patch changes nothing.
func (p VendorPatch) Empty() bool {
	return p.ShopName == nil && p.Phone == nil && p.Location == nil && p.PhotoURL == nil
}
