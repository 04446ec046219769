package models

import "time"

// StoreInfo describes a storefront. Image paths are relative to the pricing
// API's asset host.
type StoreInfo struct {
	StoreID   string      `json:"storeID"`
	StoreName string      `json:"storeName"`
	IsActive  int         `json:"isActive"`
	Images    StoreImages `json:"images"`
}

type StoreImages struct {
	Banner string `json:"banner,omitempty"`
	Logo   string `json:"logo,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// FavoriteRecord is a favorite saved in the document store. ID is assigned by
// the store on creation.
type FavoriteRecord struct {
	ID        string    `json:"id" firestore:"-"`
	Title     string    `json:"title" firestore:"title" validate:"required"`
	Thumb     string    `json:"thumb" firestore:"thumb" validate:"omitempty,url"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
