package ledger

import (
	"errors"
	"testing"

	"github.com/inside-labs/inside/internal/domain"
)

// ─── Fixtures ───────────────────────────────────────────────────────────────

func testNode() domain.Node {
	return domain.Node{
		ID:      "node-1",
		Name:    "Alex",
		Economy: domain.DefaultEconomy(),
		Balance: 500,
		MarketItems: []domain.MarketItem{
			{ID: "reward-1", Title: "Movie Choice", Cost: 300, Icon: "🎬", Kind: domain.KindProduct, Category: domain.CategorySpend},
			{ID: "reward-2", Title: "1 Hour Massage", Cost: 1000, Icon: "💆", Kind: domain.KindService, Category: domain.CategorySpend},
			{ID: "bounty-1", Title: "Wash Dishes", Cost: 150, Icon: "🧼", Kind: domain.KindService, Category: domain.CategoryEarn},
		},
	}
}

func newTestLedger() *Ledger {
	return NewStandalone(testNode(), nil)
}

// ─── Purchase / Redeem ──────────────────────────────────────────────────────

func TestInitiatePurchase(t *testing.T) {
	l := newTestLedger()

	tx, err := l.InitiatePurchase("reward-1")
	if err != nil {
		t.Fatalf("InitiatePurchase() error: %v", err)
	}
	if tx.Status != domain.StatusPurchased {
		t.Errorf("status = %s, want %s", tx.Status, domain.StatusPurchased)
	}
	if tx.Cost != 300 || tx.Title != "Movie Choice" || tx.Icon != "🎬" {
		t.Errorf("transaction did not copy item fields: %+v", tx)
	}
	if got := l.Balance(); got != 200 {
		t.Errorf("balance = %d, want 200", got)
	}
	if len(l.Transactions()) != 1 {
		t.Errorf("expected 1 transaction in log, got %d", len(l.Transactions()))
	}
}

func TestInitiatePurchase_InsufficientFunds(t *testing.T) {
	l := newTestLedger()

	// First purchase drops the balance to 200; the same cost again cannot
	// be covered.
	if _, err := l.InitiatePurchase("reward-1"); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	_, err := l.InitiatePurchase("reward-1")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.Balance(); got != 200 {
		t.Errorf("balance changed on rejected purchase: %d, want 200", got)
	}
	if len(l.Transactions()) != 1 {
		t.Errorf("rejected purchase appended a transaction: log has %d", len(l.Transactions()))
	}
}

func TestInitiatePurchase_TooExpensive(t *testing.T) {
	l := newTestLedger()
	_, err := l.InitiatePurchase("reward-2") // cost 1000 > balance 500
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.Balance(); got != 500 {
		t.Errorf("balance = %d, want 500", got)
	}
}

func TestInitiatePurchase_UnknownItem(t *testing.T) {
	l := newTestLedger()
	_, err := l.InitiatePurchase("no-such-item")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestInitiatePurchase_EarnItemRejected(t *testing.T) {
	l := newTestLedger()
	_, err := l.InitiatePurchase("bounty-1")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRedeem(t *testing.T) {
	l := newTestLedger()
	tx, _ := l.InitiatePurchase("reward-1")
	balanceAfterBuy := l.Balance()

	if err := l.Redeem(tx.ID); err != nil {
		t.Fatalf("Redeem() error: %v", err)
	}
	if got := l.Transactions()[0].Status; got != domain.StatusRedeemed {
		t.Errorf("status = %s, want %s", got, domain.StatusRedeemed)
	}
	if got := l.Balance(); got != balanceAfterBuy {
		t.Errorf("Redeem moved the balance: %d, want %d", got, balanceAfterBuy)
	}

	// Redeeming twice is rejected and the balance stays put.
	err := l.Redeem(tx.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second Redeem: expected ErrInvalidTransition, got %v", err)
	}
	if got := l.Balance(); got != balanceAfterBuy {
		t.Errorf("balance changed on rejected redeem: %d", got)
	}
}

func TestRedeem_UnknownTransaction(t *testing.T) {
	l := newTestLedger()
	err := l.Redeem("no-such-tx")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

// ─── Bounty Lifecycle ───────────────────────────────────────────────────────

func TestBountyLifecycle(t *testing.T) {
	l := newTestLedger()

	tx, err := l.InitiateBounty("bounty-1")
	if err != nil {
		t.Fatalf("InitiateBounty() error: %v", err)
	}
	if tx.Status != domain.StatusAccepted {
		t.Errorf("status = %s, want %s", tx.Status, domain.StatusAccepted)
	}
	if got := l.Balance(); got != 500 {
		t.Errorf("accepting a bounty moved the balance: %d", got)
	}

	if err := l.MarkComplete(tx.ID); err != nil {
		t.Fatalf("MarkComplete() error: %v", err)
	}
	if got := l.Transactions()[0].Status; got != domain.StatusPendingApproval {
		t.Errorf("status = %s, want %s", got, domain.StatusPendingApproval)
	}
	if got := l.Balance(); got != 500 {
		t.Errorf("marking complete moved the balance: %d", got)
	}

	if err := l.Approve(tx.ID, domain.ActorCounterpart); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if got := l.Balance(); got != 650 {
		t.Errorf("balance = %d, want 650 after approving a 150 bounty", got)
	}
	if got := l.Transactions()[0].Status; got != domain.StatusApproved {
		t.Errorf("status = %s, want %s", got, domain.StatusApproved)
	}

	// A second approval is rejected and must not pay out twice.
	err = l.Approve(tx.ID, domain.ActorCounterpart)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second Approve: expected ErrInvalidTransition, got %v", err)
	}
	if got := l.Balance(); got != 650 {
		t.Errorf("double approval credited twice: balance = %d", got)
	}
}

func TestApprove_SelfApprovalRejected(t *testing.T) {
	l := newTestLedger()
	tx, _ := l.InitiateBounty("bounty-1")
	l.MarkComplete(tx.ID)

	err := l.Approve(tx.ID, domain.ActorOwner)
	if !errors.Is(err, domain.ErrUnauthorizedActor) {
		t.Fatalf("expected ErrUnauthorizedActor, got %v", err)
	}
	if got := l.Balance(); got != 500 {
		t.Errorf("self-approval credited the balance: %d", got)
	}
	if got := l.Transactions()[0].Status; got != domain.StatusPendingApproval {
		t.Errorf("status = %s, want %s", got, domain.StatusPendingApproval)
	}
}

func TestInitiateBounty_DuplicateActive(t *testing.T) {
	l := newTestLedger()

	if _, err := l.InitiateBounty("bounty-1"); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	_, err := l.InitiateBounty("bounty-1")
	if !errors.Is(err, domain.ErrDuplicateActiveBounty) {
		t.Fatalf("expected ErrDuplicateActiveBounty, got %v", err)
	}

	// Still blocked while pending approval.
	tx := l.Transactions()[0]
	l.MarkComplete(tx.ID)
	_, err = l.InitiateBounty("bounty-1")
	if !errors.Is(err, domain.ErrDuplicateActiveBounty) {
		t.Fatalf("expected ErrDuplicateActiveBounty while pending, got %v", err)
	}
}

func TestInitiateBounty_AfterCancel(t *testing.T) {
	l := newTestLedger()

	tx, _ := l.InitiateBounty("bounty-1")
	if err := l.Cancel(tx.ID, domain.ActorOwner); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if got := l.Transactions()[0].Status; got != domain.StatusCanceled {
		t.Errorf("status = %s, want %s", got, domain.StatusCanceled)
	}
	if got := l.Balance(); got != 500 {
		t.Errorf("cancel moved the balance: %d", got)
	}

	// The duplicate-active check only blocks accepted/pending_approval:
	// re-accepting after a cancel succeeds.
	tx2, err := l.InitiateBounty("bounty-1")
	if err != nil {
		t.Fatalf("re-accept after cancel: %v", err)
	}
	if tx2.ID == tx.ID {
		t.Error("re-accept reused the canceled transaction id")
	}
	if len(l.Transactions()) != 2 {
		t.Errorf("canceled transaction was dropped from the log: %d entries", len(l.Transactions()))
	}
}

func TestCancel_PendingApproval(t *testing.T) {
	l := newTestLedger()
	tx, _ := l.InitiateBounty("bounty-1")
	l.MarkComplete(tx.ID)

	if err := l.Cancel(tx.ID, domain.ActorCounterpart); err != nil {
		t.Fatalf("Cancel() from pending_approval: %v", err)
	}
}

func TestCancel_TerminalRejected(t *testing.T) {
	l := newTestLedger()
	tx, _ := l.InitiatePurchase("reward-1")

	err := l.Cancel(tx.ID, domain.ActorOwner)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("canceling a purchase: expected ErrInvalidTransition, got %v", err)
	}
}

func TestMarkComplete_InvalidFrom(t *testing.T) {
	l := newTestLedger()
	tx, _ := l.InitiateBounty("bounty-1")
	l.Cancel(tx.ID, domain.ActorOwner)

	err := l.MarkComplete(tx.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

// ─── Direct Credit ──────────────────────────────────────────────────────────

func TestCredit(t *testing.T) {
	l := newTestLedger()

	if err := l.Credit(150, "activity completed"); err != nil {
		t.Fatalf("Credit() error: %v", err)
	}
	if got := l.Balance(); got != 650 {
		t.Errorf("balance = %d, want 650", got)
	}
	if len(l.Transactions()) != 0 {
		t.Error("direct credit appended a transaction")
	}
}

func TestCredit_NegativeRejected(t *testing.T) {
	l := newTestLedger()
	if err := l.Credit(-50, "nope"); err == nil {
		t.Fatal("negative credit accepted")
	}
	if got := l.Balance(); got != 500 {
		t.Errorf("balance = %d, want 500", got)
	}
}

// ─── Catalog ────────────────────────────────────────────────────────────────

func TestAddItem(t *testing.T) {
	l := newTestLedger()

	item, err := l.AddItem("Breakfast in Bed", 500, "🥐", domain.KindService, domain.CategorySpend)
	if err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if item.ID == "" {
		t.Error("AddItem did not assign an id")
	}
	if len(l.Items()) != 4 {
		t.Errorf("catalog has %d items, want 4", len(l.Items()))
	}
}

func TestAddItem_Validation(t *testing.T) {
	l := newTestLedger()

	tests := []struct {
		name  string
		title string
		cost  int64
		want  error
	}{
		{"empty title", "", 100, domain.ErrEmptyTitle},
		{"negative cost", "Thing", -1, domain.ErrNegativeCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddItem(tt.title, tt.cost, "🎁", domain.KindService, domain.CategorySpend)
			if !errors.Is(err, tt.want) {
				t.Errorf("AddItem() error = %v, want %v", err, tt.want)
			}
		})
	}
	if len(l.Items()) != 3 {
		t.Errorf("rejected items were added: catalog has %d", len(l.Items()))
	}
}

func TestRemoveItem_HistorySurvives(t *testing.T) {
	l := newTestLedger()
	tx, _ := l.InitiatePurchase("reward-1")

	if err := l.RemoveItem("reward-1"); err != nil {
		t.Fatalf("RemoveItem() error: %v", err)
	}
	if len(l.Items()) != 2 {
		t.Errorf("catalog has %d items, want 2", len(l.Items()))
	}

	// The recorded transaction keeps its copied cost/title/icon and can
	// still be redeemed.
	got := l.Transactions()[0]
	if got.Title != "Movie Choice" || got.Cost != 300 {
		t.Errorf("transaction lost item fields after delisting: %+v", got)
	}
	if err := l.Redeem(tx.ID); err != nil {
		t.Errorf("Redeem after delisting: %v", err)
	}
}

func TestRemoveItem_NotFound(t *testing.T) {
	l := newTestLedger()
	err := l.RemoveItem("no-such-item")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

// ─── Invariants ─────────────────────────────────────────────────────────────

func TestBalanceNeverNegative(t *testing.T) {
	l := newTestLedger()

	// Drain the balance with purchases; every op must either succeed or
	// leave the balance untouched, and the balance must never go below zero.
	for i := 0; i < 10; i++ {
		l.InitiatePurchase("reward-1")
		if got := l.Balance(); got < 0 {
			t.Fatalf("balance went negative: %d", got)
		}
	}
	if got := l.Balance(); got != 200 {
		t.Errorf("balance = %d, want 200 after one affordable purchase", got)
	}
}

func TestTransactionIDsUnique(t *testing.T) {
	l := newTestLedger()

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		tx, err := l.InitiateBounty("bounty-1")
		if err != nil {
			t.Fatalf("accept %d: %v", i, err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate transaction id %s", tx.ID)
		}
		seen[tx.ID] = true
		l.Cancel(tx.ID, domain.ActorOwner)
	}
}

// ─── Events ─────────────────────────────────────────────────────────────────

type recordingEvents struct {
	balances []int64
	statuses []domain.TransactionStatus
}

func (r *recordingEvents) OnNodeBalanceChanged(_ string, b int64) { r.balances = append(r.balances, b) }
func (r *recordingEvents) OnTransactionStatusChanged(_, _ string, s domain.TransactionStatus) {
	r.statuses = append(r.statuses, s)
}

func TestEventsFired(t *testing.T) {
	rec := &recordingEvents{}
	l := NewStandalone(testNode(), rec)

	tx, _ := l.InitiateBounty("bounty-1")
	l.MarkComplete(tx.ID)
	l.Approve(tx.ID, domain.ActorCounterpart)

	wantStatuses := []domain.TransactionStatus{
		domain.StatusAccepted, domain.StatusPendingApproval, domain.StatusApproved,
	}
	if len(rec.statuses) != len(wantStatuses) {
		t.Fatalf("got %d status events, want %d", len(rec.statuses), len(wantStatuses))
	}
	for i, want := range wantStatuses {
		if rec.statuses[i] != want {
			t.Errorf("status event %d = %s, want %s", i, rec.statuses[i], want)
		}
	}
	if len(rec.balances) != 1 || rec.balances[0] != 650 {
		t.Errorf("balance events = %v, want [650]", rec.balances)
	}
}
