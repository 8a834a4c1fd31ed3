// Copyright 2026 The Flatbank Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	stderrors "errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"flatbank.io/bank"
	"flatbank.io/errors"
	"flatbank.io/flatbank"
	"flatbank.io/log"
)

// An item is one entry of a role menu.
type item struct {
	name string
	run  func(c *conn) error
}

var menus = map[flatbank.Role][]item{
	flatbank.Admin: {
		{"Add employee", addStaff(flatbank.Employee)},
		{"Add manager", addStaff(flatbank.Manager)},
		{"Modify customer", modifyUser(flatbank.Customer)},
		{"Modify employee", modifyUser(flatbank.Employee)},
		{"Promote employee to manager", changeRole(flatbank.Employee, flatbank.Manager)},
		{"Demote manager to employee", changeRole(flatbank.Manager, flatbank.Employee)},
		{"Change password", (*conn).changePassword},
	},
	flatbank.Manager: {
		{"View customers", (*conn).viewCustomers},
		{"Activate or deactivate customer", (*conn).setActive},
		{"View loans", (*conn).viewLoans},
		{"Assign loan to employee", (*conn).assignLoan},
		{"Review feedback", (*conn).viewFeedback},
		{"Change password", (*conn).changePassword},
	},
	flatbank.Employee: {
		{"Add customer", (*conn).addCustomer},
		{"Modify customer", (*conn).modifyCustomer},
		{"View assigned loans", (*conn).pendingLoans},
		{"Approve or reject loan", (*conn).decideLoan},
		{"View customer passbook", (*conn).passbook},
		{"Change password", (*conn).changePassword},
	},
	flatbank.Customer: {
		{"View balance", (*conn).balance},
		{"Deposit", (*conn).deposit},
		{"Withdraw", (*conn).withdraw},
		{"Transfer", (*conn).transfer},
		{"Apply for loan", (*conn).applyLoan},
		{"Change password", (*conn).changePassword},
		{"Give feedback", (*conn).feedback},
		{"Transaction history", (*conn).history},
	},
}

// menu runs the logged-in user's menu until Logout, which returns nil,
// or Exit, which returns errExit.
func (c *conn) menu() error {
	items := menus[c.role]
	for {
		c.printf("")
		c.printf("%s menu:", title(c.role.String()))
		for i, it := range items {
			c.printf("%d. %s", i+1, it.name)
		}
		c.printf("%d. Logout", len(items)+1)
		c.printf("%d. Exit", len(items)+2)
		choice, err := c.prompt("Choice:")
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(choice)
		switch {
		case err != nil || n < 1 || n > len(items)+2:
			c.printf("Invalid choice %q.", choice)
			continue
		case n == len(items)+1:
			c.printf("Logged out.")
			return nil
		case n == len(items)+2:
			return errExit
		}
		if err := items[n-1].run(c); err != nil {
			return err
		}
	}
}

// report tells the client why an operation failed. Errors the client
// cannot cause are logged and reported as internal.
func (c *conn) report(err error) {
	switch {
	case stderrors.Is(err, bank.ErrInsufficientFunds):
		c.printf("Insufficient funds.")
	case errors.Is(errors.Exist, err):
		c.printf("Already exists: %s.", detail(err))
	case errors.Is(errors.NotExist, err):
		c.printf("Not found: %s.", detail(err))
	case errors.Is(errors.Invalid, err):
		c.printf("Invalid input: %s.", detail(err))
	case errors.Is(errors.Permission, err):
		c.printf("Not permitted: %s.", detail(err))
	case errors.Is(errors.Conflict, err):
		c.printf("Not allowed: %s.", detail(err))
	default:
		log.Error.Printf("server: session %s: %s %s: %v", c.id, c.role, c.user, err)
		c.printf("Internal error. Please try again later.")
	}
}

// detail returns the innermost message of err, or its kind if the chain
// carries no message of its own.
func detail(err error) string {
	msg := ""
	for err != nil {
		e, ok := err.(*errors.Error)
		if !ok {
			return err.Error()
		}
		if e.User != "" {
			msg = string(e.User)
		} else if e.Table != "" && msg == "" {
			msg = string(e.Table)
		}
		if e.Err == nil {
			if msg != "" {
				return msg
			}
			return e.Kind.String()
		}
		err = e.Err
	}
	return msg
}

// title capitalizes a role name. A Caser is stateful, so each call makes one.
func title(s string) string { return cases.Title(language.English).String(s) }

// promptInt prompts until the client enters an integer.
func (c *conn) promptInt(text string) (int64, error) {
	for {
		s, err := c.prompt(text)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return n, nil
		}
		c.printf("Please enter a whole number.")
	}
}

// promptBool prompts until the client answers yes or no.
func (c *conn) promptBool(text string) (bool, error) {
	for {
		s, err := c.prompt(text + " (yes/no):")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.printf("Please answer yes or no.")
	}
}

func (c *conn) changePassword() error {
	old, err := c.prompt("Current password:")
	if err != nil {
		return err
	}
	pw, err := c.prompt("New password:")
	if err != nil {
		return err
	}
	if err := c.srv.bank.ChangePassword(c.role, c.user, old, pw); err != nil {
		if errors.Is(errors.Permission, err) {
			c.printf("Current password is incorrect.")
			return nil
		}
		c.report(err)
		return nil
	}
	c.printf("Password changed.")
	return nil
}

// Admin.

func addStaff(role flatbank.Role) func(c *conn) error {
	return func(c *conn) error {
		name, err := c.prompt("New " + role.String() + " username:")
		if err != nil {
			return err
		}
		pw, err := c.prompt("Password:")
		if err != nil {
			return err
		}
		u, err := c.srv.bank.AddStaff(role, flatbank.UserName(name), pw)
		if err != nil {
			c.report(err)
			return nil
		}
		c.printf("Added %s %s with id %d.", role, u.Username, u.ID)
		return nil
	}
}

func modifyUser(role flatbank.Role) func(c *conn) error {
	return func(c *conn) error {
		name, err := c.prompt(title(role.String()) + " username:")
		if err != nil {
			return err
		}
		pw, err := c.prompt("New password:")
		if err != nil {
			return err
		}
		active, err := c.promptBool("Active")
		if err != nil {
			return err
		}
		if err := c.srv.bank.ModifyUser(role, flatbank.UserName(name), pw, active); err != nil {
			c.report(err)
			return nil
		}
		c.printf("Updated %s %s.", role, name)
		return nil
	}
}

func changeRole(from, to flatbank.Role) func(c *conn) error {
	return func(c *conn) error {
		name, err := c.prompt(title(from.String()) + " username:")
		if err != nil {
			return err
		}
		u, err := c.srv.bank.ChangeRole(from, to, flatbank.UserName(name))
		if err != nil {
			c.report(err)
			return nil
		}
		c.printf("%s is now %s %d.", u.Username, to, u.ID)
		return nil
	}
}

// Manager.

func (c *conn) viewCustomers() error {
	users, err := c.srv.bank.Customers()
	if err != nil {
		c.report(err)
		return nil
	}
	if len(users) == 0 {
		c.printf("No customers.")
		return nil
	}
	for _, u := range users {
		state := "active"
		if !u.Active {
			state = "inactive"
		}
		c.printf("%d %s %s", u.ID, u.Username, state)
	}
	return nil
}

func (c *conn) setActive() error {
	name, err := c.prompt("Customer username:")
	if err != nil {
		return err
	}
	active, err := c.promptBool("Active")
	if err != nil {
		return err
	}
	if err := c.srv.bank.SetActive(flatbank.UserName(name), active); err != nil {
		c.report(err)
		return nil
	}
	if active {
		c.printf("Customer %s activated.", name)
	} else {
		c.printf("Customer %s deactivated.", name)
	}
	return nil
}

func (c *conn) viewLoans() error {
	loans, err := c.srv.bank.Loans()
	if err != nil {
		c.report(err)
		return nil
	}
	c.printLoans(loans)
	return nil
}

func (c *conn) printLoans(loans []flatbank.LoanRecord) {
	if len(loans) == 0 {
		c.printf("No loans.")
		return
	}
	for _, l := range loans {
		c.printf("Loan %d: %s %s %s (employee %s)", l.LoanID, l.Username, c.srv.bank.Amount(l.Amount), l.Status, l.Employee)
	}
}

func (c *conn) assignLoan() error {
	id, err := c.promptInt("Loan id:")
	if err != nil {
		return err
	}
	name, err := c.prompt("Employee username:")
	if err != nil {
		return err
	}
	l, err := c.srv.bank.AssignLoan(int(id), flatbank.UserName(name))
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Loan %d assigned to %s.", l.LoanID, l.Employee)
	return nil
}

func (c *conn) viewFeedback() error {
	fb, err := c.srv.bank.Feedback()
	if err != nil {
		c.report(err)
		return nil
	}
	if len(fb) == 0 {
		c.printf("No feedback.")
		return nil
	}
	for _, f := range fb {
		c.printf("%d %s: %s", f.ID, f.Username, f.Message)
	}
	return nil
}

// Employee.

func (c *conn) addCustomer() error {
	name, err := c.prompt("New customer username:")
	if err != nil {
		return err
	}
	pw, err := c.prompt("Password:")
	if err != nil {
		return err
	}
	deposit, err := c.promptInt("Initial deposit:")
	if err != nil {
		return err
	}
	u, a, err := c.srv.bank.AddCustomer(flatbank.UserName(name), pw, deposit)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Added customer %s with id %d and account %d, balance %s.", u.Username, u.ID, a.AccountID, c.srv.bank.Amount(a.Balance))
	return nil
}

func (c *conn) modifyCustomer() error {
	name, err := c.prompt("Customer username:")
	if err != nil {
		return err
	}
	pw, err := c.prompt("New password:")
	if err != nil {
		return err
	}
	if err := c.srv.bank.ModifyCustomer(flatbank.UserName(name), pw); err != nil {
		c.report(err)
		return nil
	}
	c.printf("Updated customer %s.", name)
	return nil
}

func (c *conn) pendingLoans() error {
	loans, err := c.srv.bank.PendingLoans(c.user)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printLoans(loans)
	return nil
}

func (c *conn) decideLoan() error {
	id, err := c.promptInt("Loan id:")
	if err != nil {
		return err
	}
	approve, err := c.promptBool("Approve")
	if err != nil {
		return err
	}
	l, err := c.srv.bank.DecideLoan(c.user, int(id), approve)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Loan %d %s.", l.LoanID, l.Status)
	return nil
}

func (c *conn) passbook() error {
	name, err := c.prompt("Customer username:")
	if err != nil {
		return err
	}
	txs, err := c.srv.bank.Passbook(flatbank.UserName(name))
	if err != nil {
		c.report(err)
		return nil
	}
	c.printStatement(txs)
	return nil
}

func (c *conn) printStatement(txs []flatbank.TransactionRecord) {
	if len(txs) == 0 {
		c.printf("No transactions.")
		return
	}
	for _, line := range c.srv.bank.Statement(txs) {
		c.printf("%s", line)
	}
}

// Customer.

func (c *conn) balance() error {
	bal, err := c.srv.bank.Balance(c.user)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Balance: %s", c.srv.bank.Amount(bal))
	return nil
}

func (c *conn) deposit() error {
	amount, err := c.promptInt("Amount to deposit:")
	if err != nil {
		return err
	}
	bal, err := c.srv.bank.Deposit(c.user, amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Deposited %s. New balance: %s", c.srv.bank.Amount(amount), c.srv.bank.Amount(bal))
	return nil
}

func (c *conn) withdraw() error {
	amount, err := c.promptInt("Amount to withdraw:")
	if err != nil {
		return err
	}
	bal, err := c.srv.bank.Withdraw(c.user, amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Withdrew %s. New balance: %s", c.srv.bank.Amount(amount), c.srv.bank.Amount(bal))
	return nil
}

func (c *conn) transfer() error {
	to, err := c.prompt("Recipient username:")
	if err != nil {
		return err
	}
	amount, err := c.promptInt("Amount to transfer:")
	if err != nil {
		return err
	}
	bal, err := c.srv.bank.Transfer(c.user, flatbank.UserName(to), amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Transferred %s to %s. New balance: %s", c.srv.bank.Amount(amount), to, c.srv.bank.Amount(bal))
	return nil
}

func (c *conn) applyLoan() error {
	amount, err := c.promptInt("Loan amount:")
	if err != nil {
		return err
	}
	l, err := c.srv.bank.ApplyLoan(c.user, amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printf("Loan application %d for %s submitted.", l.LoanID, c.srv.bank.Amount(l.Amount))
	return nil
}

func (c *conn) feedback() error {
	msg, err := c.prompt("Feedback:")
	if err != nil {
		return err
	}
	if _, err := c.srv.bank.AddFeedback(c.user, msg); err != nil {
		c.report(err)
		return nil
	}
	c.printf("Thank you for your feedback.")
	return nil
}

func (c *conn) history() error {
	txs, err := c.srv.bank.History(c.user)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printStatement(txs)
	return nil
}
