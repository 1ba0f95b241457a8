package repository

// NewSQLRepositories returns repositories backed by db.
func NewSQLRepositories(db *DB) *Repositories {
	return &Repositories{
		Users:        NewSQLUserRepository(db),
		Accounts:     NewSQLAccountRepository(db),
		Transactions: NewSQLTransactionRepository(db),
	}
}
