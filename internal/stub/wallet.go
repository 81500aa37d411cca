package stub

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/gatorpay/gatorpay-go/internal/model"
)

func (s *Server) addMoney(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req model.AddMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	}

	amount := decimal.NewFromFloat(req.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return fail(c, http.StatusBadRequest, errBadAmount.Error())
	}

	description := req.Description
	if description == "" {
		description = "Deposit from " + req.Source
	}

	wallet, err := s.st.addMoney(userID, amount, description)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return respond(c, http.StatusOK, "Money added successfully", wallet)
}

func (s *Server) withdraw(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req model.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if req.BankAccount == "" {
		return fail(c, http.StatusBadRequest, "bank_account is required")
	}

	amount := decimal.NewFromFloat(req.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return fail(c, http.StatusBadRequest, errBadAmount.Error())
	}

	wallet, err := s.st.withdraw(userID, amount, req.BankAccount)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return respond(c, http.StatusOK, "Withdrawal successful", wallet)
}

func (s *Server) transactions(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	result, err := s.st.page(userID, page, limit)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return respond(c, http.StatusOK, "Transactions retrieved successfully", result)
}
