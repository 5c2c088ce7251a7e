package seed

import (
	"time"

	"github.com/webstaxinc/agra-sweets/internal/models"
)

// Dataset is the static default data used to bootstrap empty store keys
type Dataset struct {
	Communities []models.Community
	Products    []models.Product
	Orders      []models.Order
	Users       []models.User
}

// FindUserByEmail looks up a user by exact email
func (d *Dataset) FindUserByEmail(email string) (models.User, bool) {
	for _, u := range d.Users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// FindCommunity looks up a community by id
func (d *Dataset) FindCommunity(id string) (models.Community, bool) {
	for _, c := range d.Communities {
		if c.ID == id {
			return c, true
		}
	}
	return models.Community{}, false
}

// Default returns a fresh copy of the built-in dataset. Orders are newest first.
func Default() *Dataset {
	return &Dataset{
		Communities: []models.Community{
			{ID: "1", Name: "Green Valley Apartments", Address: "12 MG Road, Agra", Image: "/images/communities/green-valley.jpg", DeliveryFee: 20},
			{ID: "2", Name: "Taj View Residency", Address: "45 Fatehabad Road, Agra", Image: "/images/communities/taj-view.jpg", DeliveryFee: 30},
			{ID: "3", Name: "Kamla Nagar Society", Address: "8 Kamla Nagar, Agra", Image: "/images/communities/kamla-nagar.jpg", DeliveryFee: 25},
			{ID: "4", Name: "Dayal Bagh Enclave", Address: "3 Dayal Bagh Road, Agra", Image: "/images/communities/dayal-bagh.jpg", DeliveryFee: 40},
		},
		Products: []models.Product{
			{ID: "1", Name: "Agra Petha", Description: "Classic translucent ash gourd sweet, 500g box", Price: 120, Image: "/images/products/petha.jpg", Category: "Petha", InStock: true},
			{ID: "2", Name: "Kesar Angoori Petha", Description: "Saffron soaked bite-sized petha, 500g", Price: 180, Image: "/images/products/angoori-petha.jpg", Category: "Petha", InStock: true},
			{ID: "3", Name: "Dalmoth", Description: "Spicy lentil and nut namkeen, 250g", Price: 90, Image: "/images/products/dalmoth.jpg", Category: "Namkeen", InStock: true},
			{ID: "4", Name: "Kaju Katli", Description: "Cashew fudge with silver varq, 250g", Price: 320, Image: "/images/products/kaju-katli.jpg", Category: "Barfi", InStock: true},
			{ID: "5", Name: "Motichoor Ladoo", Description: "Fine boondi ladoo in pure ghee, 6 pieces", Price: 150, Image: "/images/products/motichoor.jpg", Category: "Ladoo", InStock: true},
			{ID: "6", Name: "Gulab Jamun", Description: "Soft khoya dumplings in rose syrup, 8 pieces", Price: 140, Image: "/images/products/gulab-jamun.jpg", Category: "Syrup Sweets", InStock: true},
			{ID: "7", Name: "Rasgulla", Description: "Spongy chenna balls in light syrup, 8 pieces", Price: 130, Image: "/images/products/rasgulla.jpg", Category: "Syrup Sweets", InStock: false},
			{ID: "8", Name: "Bedai Kachori", Description: "Breakfast kachori with aloo sabzi, 2 pieces", Price: 50, Image: "/images/products/bedai.jpg", Category: "Snacks", InStock: true},
		},
		Orders: []models.Order{
			{
				ID:              "1002",
				CustomerID:      "2",
				CustomerName:    "Rahul Sharma",
				CustomerPhone:   "9876543210",
				CustomerAddress: "Flat 302, Tower B",
				CommunityID:     "1",
				Items: []models.OrderItem{
					{ProductID: "4", Name: "Kaju Katli", Price: 320, Quantity: 1},
				},
				TimeSlot:    models.TimeSlotEvening,
				DeliveryFee: 20,
				Subtotal:    320,
				Total:       340,
				Status:      models.OrderStatusPending,
				CreatedAt:   time.Date(2024, time.March, 12, 18, 5, 0, 0, time.UTC),
			},
			{
				ID:              "1001",
				CustomerID:      "2",
				CustomerName:    "Rahul Sharma",
				CustomerPhone:   "9876543210",
				CustomerAddress: "Flat 302, Tower B",
				CommunityID:     "1",
				Items: []models.OrderItem{
					{ProductID: "1", Name: "Agra Petha", Price: 120, Quantity: 2},
					{ProductID: "3", Name: "Dalmoth", Price: 90, Quantity: 1},
				},
				TimeSlot:    models.TimeSlotMorning,
				DeliveryFee: 20,
				Subtotal:    330,
				Total:       350,
				Status:      models.OrderStatusDelivered,
				CreatedAt:   time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC),
			},
		},
		Users: []models.User{
			{ID: "1", Name: "Admin User", Email: "admin@sweetshop.com", Role: models.RoleAdmin},
			{ID: "2", Name: "Rahul Sharma", Email: "customer@example.com", Role: models.RoleCustomer},
		},
	}
}
