package user

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type MembershipLevel string

const (
	MembershipMember   MembershipLevel = "member"
	MembershipSilver   MembershipLevel = "silver"
	MembershipGold     MembershipLevel = "gold"
	MembershipPlatinum MembershipLevel = "platinum"
)

// Membership thresholds on cumulative spend, in VND.
const (
	silverThreshold   = 5_000_000
	goldThreshold     = 20_000_000
	platinumThreshold = 50_000_000
)

// MembershipFor derives the tier from cumulative spend.
func MembershipFor(totalSpent int64) MembershipLevel {
	switch {
	case totalSpent >= platinumThreshold:
		return MembershipPlatinum
	case totalSpent >= goldThreshold:
		return MembershipGold
	case totalSpent >= silverThreshold:
		return MembershipSilver
	default:
		return MembershipMember
	}
}

type User struct {
	ID              int64
	Email           string
	PasswordHash    string
	FullName        *string
	Role            Role
	TotalSpent      int64
	OrderCount      int
	MembershipLevel MembershipLevel
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
