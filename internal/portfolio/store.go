// Package portfolio keeps per-strategy paper-trading accounts: cash,
// positions, realized pnl and the full trade log, persisted in DuckDB.
package portfolio

import (
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/papertrade-lab/stratler/internal/logger"
	"github.com/papertrade-lab/stratler/internal/types"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// Store persists accounts, trades and users in DuckDB. All writes that
// touch both an account and its trade log happen inside one
// transaction.
type Store struct {
	db  *sql.DB
	sq  squirrel.StatementBuilderType
	log *logger.Logger
}

// NewStore opens a DuckDB database at path (":memory:" or "" for an
// in-memory store) and creates the schema.
func NewStore(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open database", err)
	}

	s := &Store{
		db:  db,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		log: log,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			strategy TEXT PRIMARY KEY,
			cash DOUBLE,
			positions TEXT,
			total_pnl DOUBLE,
			total_trades INTEGER,
			winning_trades INTEGER,
			losing_trades INTEGER
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create accounts table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMP,
			symbol TEXT,
			strategy_name TEXT,
			side TEXT,
			quantity DOUBLE,
			price DOUBLE,
			commission DOUBLE,
			total DOUBLE,
			cash_after DOUBLE,
			pnl DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create trades table", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE,
			email TEXT,
			password_hash TEXT,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create users table", err)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetAccount loads the account keyed by strategy name. The second
// return value reports whether it exists.
func (s *Store) GetAccount(strategy string) (types.Account, bool, error) {
	query := s.sq.
		Select("strategy", "cash", "positions", "total_pnl", "total_trades", "winning_trades", "losing_trades").
		From("accounts").
		Where(squirrel.Eq{"strategy": strategy}).
		RunWith(s.db)

	var (
		account       types.Account
		positionsJSON string
	)

	err := query.QueryRow().Scan(
		&account.StrategyName, &account.Cash, &positionsJSON,
		&account.TotalPnL, &account.TotalTrades, &account.WinningTrades, &account.LosingTrades,
	)
	if err == sql.ErrNoRows {
		return types.Account{}, false, nil
	}

	if err != nil {
		return types.Account{}, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load account", err)
	}

	if err := json.Unmarshal([]byte(positionsJSON), &account.Positions); err != nil {
		return types.Account{}, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to decode positions", err)
	}

	if account.Positions == nil {
		account.Positions = map[string]float64{}
	}

	return account, true, nil
}

// CreateAccount inserts a fresh account row.
func (s *Store) CreateAccount(account types.Account) error {
	positionsJSON, err := json.Marshal(account.Positions)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode positions", err)
	}

	insert := s.sq.
		Insert("accounts").
		Columns("strategy", "cash", "positions", "total_pnl", "total_trades", "winning_trades", "losing_trades").
		Values(account.StrategyName, account.Cash, string(positionsJSON),
			account.TotalPnL, account.TotalTrades, account.WinningTrades, account.LosingTrades).
		RunWith(s.db)

	if _, err := insert.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert account", err)
	}

	return nil
}

// RecordTrade appends a trade and writes the updated account state in
// one transaction. On error the previous state is untouched.
func (s *Store) RecordTrade(trade types.Trade, account types.Account) error {
	positionsJSON, err := json.Marshal(account.Positions)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to encode positions", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	insertTrade := s.sq.
		Insert("trades").
		Columns("id", "timestamp", "symbol", "strategy_name", "side", "quantity",
			"price", "commission", "total", "cash_after", "pnl").
		Values(trade.ID, trade.Timestamp, trade.Symbol, trade.StrategyName, string(trade.Side),
			trade.Quantity, trade.Price, trade.Commission, trade.Total, trade.CashAfter, trade.PnL).
		RunWith(tx)

	if _, err := insertTrade.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert trade", err)
	}

	updateAccount := s.sq.
		Update("accounts").
		Set("cash", account.Cash).
		Set("positions", string(positionsJSON)).
		Set("total_pnl", account.TotalPnL).
		Set("total_trades", account.TotalTrades).
		Set("winning_trades", account.WinningTrades).
		Set("losing_trades", account.LosingTrades).
		Where(squirrel.Eq{"strategy": account.StrategyName}).
		RunWith(tx)

	if _, err := updateAccount.Exec(); err != nil {
		tx.Rollback()
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to update account", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit transaction", err)
	}

	return nil
}

// TradesByStrategy returns the trade log for a strategy in execution
// order.
func (s *Store) TradesByStrategy(strategy string) ([]types.Trade, error) {
	query := s.sq.
		Select("id", "timestamp", "symbol", "strategy_name", "side", "quantity",
			"price", "commission", "total", "cash_after", "pnl").
		From("trades").
		Where(squirrel.Eq{"strategy_name": strategy}).
		OrderBy("timestamp ASC").
		RunWith(s.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	trades := []types.Trade{}

	for rows.Next() {
		var (
			trade types.Trade
			side  string
		)

		err := rows.Scan(&trade.ID, &trade.Timestamp, &trade.Symbol, &trade.StrategyName, &side,
			&trade.Quantity, &trade.Price, &trade.Commission, &trade.Total, &trade.CashAfter, &trade.PnL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trade.Side = types.Side(side)
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate trades", err)
	}

	return trades, nil
}

// AverageBuyPrice computes the quantity-weighted mean price over every
// BUY the strategy has executed for the symbol, 0 when there are none.
func (s *Store) AverageBuyPrice(strategy, symbol string) (float64, error) {
	query := s.sq.
		Select("COALESCE(SUM(price * quantity), 0)", "COALESCE(SUM(quantity), 0)").
		From("trades").
		Where(squirrel.Eq{
			"strategy_name": strategy,
			"symbol":        symbol,
			"side":          string(types.SideBuy),
		}).
		RunWith(s.db)

	var totalCost, totalQuantity float64

	if err := query.QueryRow().Scan(&totalCost, &totalQuantity); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to compute average buy price", err)
	}

	if totalQuantity <= 0 {
		return 0, nil
	}

	return totalCost / totalQuantity, nil
}

// CreateUser inserts a user row. A duplicate username is reported as
// ErrCodeUserAlreadyExists.
func (s *Store) CreateUser(user types.User) error {
	if _, exists, err := s.GetUserByUsername(user.Username); err != nil {
		return err
	} else if exists {
		return errors.Newf(errors.ErrCodeUserAlreadyExists, "username %q is taken", user.Username)
	}

	insert := s.sq.
		Insert("users").
		Columns("id", "username", "email", "password_hash", "created_at").
		Values(user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt).
		RunWith(s.db)

	if _, err := insert.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert user", err)
	}

	return nil
}

// GetUserByUsername loads a user by username. The second return value
// reports whether it exists.
func (s *Store) GetUserByUsername(username string) (types.User, bool, error) {
	query := s.sq.
		Select("id", "username", "email", "password_hash", "created_at").
		From("users").
		Where(squirrel.Eq{"username": username}).
		RunWith(s.db)

	var user types.User

	err := query.QueryRow().Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return types.User{}, false, nil
	}

	if err != nil {
		return types.User{}, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load user", err)
	}

	return user, true, nil
}
