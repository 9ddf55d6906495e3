package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

var firstNames = []string{
	"Oliver", "Amelia", "George", "Isla", "Noah", "Ava", "Arthur", "Ivy",
	"Leo", "Freya", "Oscar", "Lily", "Harry", "Mia", "Archie", "Grace",
	"Henry", "Sophia", "Jack", "Evie", "Charlie", "Ella", "Thomas", "Ruby",
}

var lastNames = []string{
	"Smith", "Jones", "Taylor", "Brown", "Williams", "Wilson", "Johnson",
	"Davies", "Patel", "Robinson", "Wright", "Thompson", "Evans", "Walker",
	"White", "Hughes", "Green", "Hall", "Lewis", "Harris", "Clarke", "Khan",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

// GenerateUsernameFromFullName derives a plausible username, e.g.
// "Amelia Patel" -> "amelia.patel42".
func GenerateUsernameFromFullName(fullName string) string {
	username := strings.ToLower(strings.Join(strings.Fields(fullName), "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var payTypes = []domain.PayType{domain.PayTypeHourly, domain.PayTypeHourly, domain.PayTypeHourly, domain.PayTypeSalaried}

// GenerateRandomStaff builds a demo staff member with a plausible pay setup:
// mostly hourly at 11-17 per hour, occasionally salaried at 2000-3500 a month.
func GenerateRandomStaff(organizationID int64, role domain.Role, password string, emailDomainName string) (*domain.Staff, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member := &domain.Staff{
		OrganizationID: organizationID,
		Username:       username,
		PasswordHash:   string(passwordHash),
		FullName:       fullName,
		Email:          username + "@" + emailDomainName,
		Role:           role,
		PayType:        payTypes[rand.Intn(len(payTypes))],
	}

	switch member.PayType {
	case domain.PayTypeSalaried:
		member.MonthlySalary = decimal.NewFromInt(int64(2000 + rand.Intn(31)*50))
		member.DefaultHourlyRate = decimal.Zero
	default:
		member.DefaultHourlyRate = decimal.NewFromInt(int64(11 + rand.Intn(7)))
		member.MonthlySalary = decimal.Zero
	}

	return member, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
