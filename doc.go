// Package ironvault is the business-rules core of a gym-management system.
//
// It is a library, not a service. Front ends (a console, an HTTP API, the
// forge extension in extension/) construct a Gym over a store and call it
// directly. The engine owns the rules the database cannot enforce on its
// own:
//
//   - No outflow (salary, machine purchase, equipment order) may exceed the
//     available balance
//   - A staff member is paid at most once per calendar month
//   - Renewals extend from the later of now and the current expiry
//   - Members whose term ends tomorrow are notified once per day
//
// # Quick Start
//
//	import (
//	    "github.com/HassanShehryar1/IronVault-Gym-Management"
//	    "github.com/HassanShehryar1/IronVault-Gym-Management/store/memory"
//	)
//
//	gym := ironvault.New(memory.New())
//	if err := gym.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer gym.Stop()
//
//	basic := &plan.Plan{Name: "Basic", MonthlyPrice: ironvault.USD(5000)}
//	_ = gym.CreatePlan(ctx, basic)
//
//	reg, err := gym.Register(ctx, ironvault.RegisterInput{
//	    Name: "Ayesha", Email: "ayesha@example.com", PlanID: basic.ID,
//	})
//
// # Ledger
//
// Revenue is the sum of member payments. Every outflow is an expense row;
// salary payments are mirrored into the expense ledger, so
//
//	available = Σ payments − Σ expenses
//
// Outflows run under a lock (lock.Locker) that covers reading the balance
// and committing the write, so two purchases can never jointly overdraw.
// Use lock.NewRedis when several processes share one database.
//
// # Events
//
// Plugins registered with WithPlugin receive typed events (package event)
// after each write commits. Delivery is synchronous and in registration
// order; a failing or panicking plugin is logged and skipped.
//
// # TypeID
//
// All entities use TypeIDs:
//
//	mbr_01h2xcejqtf2nbrexx3vqjhp41   // Member
//	stf_01h2xcejqtf2nbrexx3vqjhp41   // Staff
//	exp_01h455vb4pex5vsknk084sn02q   // Expense
//
// TypeIDs are K-sortable to the millisecond.
package ironvault
