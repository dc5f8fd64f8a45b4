package service

import (
	"github.com/fadegor05/PROD-hack-moscow/internal/calculator"
	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

// userDirectory resolves user IDs to views using the users already loaded
// with a bill. Unknown IDs fall back to an ID-only view.
type userDirectory map[string]models.UserView

func (d userDirectory) add(u *models.User) {
	if u == nil || u.ID == "" {
		return
	}
	if _, ok := d[u.ID]; !ok {
		d[u.ID] = models.NewUserView(u)
	}
}

func (d userDirectory) addBill(bill *models.Bill) {
	d.add(bill.PaidBy)
	for i := range bill.Items {
		item := &bill.Items[i]
		d.add(item.AssignedUser)
		for j := range item.Participants {
			d.add(&item.Participants[j])
		}
	}
}

func (d userDirectory) view(id string) models.UserView {
	if v, ok := d[id]; ok {
		return v
	}
	return models.UserView{ID: id}
}

// calculatorItems reduces bill items to what the debt calculator needs.
func calculatorItems(items []models.Item) []calculator.Item {
	out := make([]calculator.Item, len(items))
	for i, item := range items {
		out[i] = calculator.Item{
			Name:         item.Name,
			Price:        item.Price,
			AssigneeID:   item.AssignedUserID,
			Participants: item.ParticipantIDs,
			IsPaid:       item.IsPaid,
		}
	}
	return out
}

// assembleBillView builds the requester-scoped view of a fully loaded bill.
// The payer sees every item; everybody else sees only items assigned to
// them. Debts are never filtered.
func assembleBillView(bill *models.Bill, requesterID string) (*models.BillView, error) {
	debts, err := calculator.CalculateBillDebts(calculatorItems(bill.Items))
	if err != nil {
		return nil, err
	}

	users := make(userDirectory)
	users.addBill(bill)

	view := &models.BillView{
		ID:             bill.ID,
		Name:           bill.Name,
		TotalPrice:     debts.TotalPrice,
		CollectedPrice: debts.CollectedPrice,
		Members:        []models.UserView{},
		Items:          []models.ItemView{},
		Debts:          make([]models.UserDebt, 0, len(debts.Debts)),
		TotalDebt:      debts.TotalDebt,
	}
	if bill.Event != nil {
		view.CreatedAt = models.FormatTime(bill.Event.CreatedAt)
		view.Until = models.FormatTime(bill.Event.Until)
	}
	if bill.PaidByID != "" {
		payer := users.view(bill.PaidByID)
		view.PaidBy = &payer
	}

	seen := make(map[string]bool)
	isPayer := bill.PaidByID != "" && bill.PaidByID == requesterID
	for i := range bill.Items {
		item := &bill.Items[i]
		if !seen[item.AssignedUserID] {
			seen[item.AssignedUserID] = true
			view.Members = append(view.Members, users.view(item.AssignedUserID))
		}
		if isPayer || item.AssignedUserID == requesterID {
			view.Items = append(view.Items, models.NewItemView(item))
		}
	}

	for _, debt := range debts.Debts {
		view.Debts = append(view.Debts, models.UserDebt{User: users.view(debt.UserID), Amount: debt.Amount})
	}

	return view, nil
}

// uniqueStrings drops blanks and duplicates, keeping first-seen order.
func uniqueStrings(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
