// Package auth provides authentication and request authorization for the
// portal.
//
// Authentication is local only: username/password against the users table
// with Argon2id password hashing. Restricted accounts (inactive or
// blacklisted) fail authentication before the password is checked so a
// blacklisted superadmin carries no residual power.
//
// Authorization glues the session layer to the access package. Each request
// carries an access.Principal built from the session user; Fiber middleware
// gates routes on capabilities and handlers obtain scope filters from the
// central access.Controller.
//
// Example usage:
//
//	provider := auth.NewLocalProvider(db)
//	user, err := provider.Authenticate(username, password)
//
//	app.Get("/admin/users",
//	    auth.RequireCapability(access.CapManageUsers),
//	    handler,
//	)
package auth
