package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// LoginPrefix starts every admin login message.
const LoginPrefix = "presale-dashboard admin session "

var (
	ErrNotAllowed      = errors.New("address is not an administrator")
	ErrMalformedLogin  = errors.New("malformed login message")
	ErrLoginExpired    = errors.New("login message is outside the accepted window")
	ErrLoginReplayed   = errors.New("login message was already used")
	ErrAdminNotEnabled = errors.New("admin access is not configured")
)

// AllowList is a set of administrator addresses.
type AllowList map[common.Address]struct{}

// NewAllowList parses hex addresses; invalid entries are an error.
func NewAllowList(addresses []string) (AllowList, error) {
	list := make(AllowList, len(addresses))
	for _, a := range addresses {
		if !ValidateEVMAddress(a) {
			return nil, fmt.Errorf("invalid admin address %q", a)
		}
		list[common.HexToAddress(a)] = struct{}{}
	}
	return list, nil
}

// Contains reports whether address is an administrator.
func (l AllowList) Contains(address common.Address) bool {
	_, ok := l[address]
	return ok
}

// LoginMessage returns the message an administrator signs at t.
func LoginMessage(t time.Time) string {
	return LoginPrefix + strconv.FormatInt(t.Unix(), 10)
}

// ParseLoginMessage extracts the timestamp from a login message.
func ParseLoginMessage(message string) (time.Time, error) {
	if !strings.HasPrefix(message, LoginPrefix) {
		return time.Time{}, ErrMalformedLogin
	}
	secs, err := strconv.ParseInt(strings.TrimPrefix(message, LoginPrefix), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedLogin, err)
	}
	return time.Unix(secs, 0), nil
}

// Admin authenticates administrators by signed login message and issues
// session tokens. Each signed message is accepted once.
type Admin struct {
	allow  AllowList
	issuer *SessionIssuer
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	used map[usedLogin]time.Time
}

type usedLogin struct {
	address  common.Address
	signedAt int64
}

// NewAdmin creates an authenticator. A nil issuer disables login.
func NewAdmin(allow AllowList, issuer *SessionIssuer, window time.Duration) *Admin {
	return &Admin{
		allow:  allow,
		issuer: issuer,
		window: window,
		now:    time.Now,
		used:   make(map[usedLogin]time.Time),
	}
}

// Session is an issued admin session.
type Session struct {
	Address   common.Address `json:"address"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// Login verifies the signed login message and issues a session.
func (a *Admin) Login(message, signature string) (*Session, error) {
	if a.issuer == nil || len(a.allow) == 0 {
		return nil, ErrAdminNotEnabled
	}

	signedAt, err := ParseLoginMessage(message)
	if err != nil {
		return nil, err
	}
	age := a.now().Sub(signedAt)
	if age > a.window || age < -a.window {
		return nil, ErrLoginExpired
	}

	addr, err := VerifyEIP191Signature(message, signature)
	if err != nil {
		return nil, err
	}
	if !a.allow.Contains(addr) {
		return nil, ErrNotAllowed
	}
	if err := a.consume(usedLogin{address: addr, signedAt: signedAt.Unix()}, signedAt.Add(a.window)); err != nil {
		return nil, err
	}

	token, expires, err := a.issuer.Issue(addr)
	if err != nil {
		return nil, err
	}
	return &Session{Address: addr, Token: token, ExpiresAt: expires}, nil
}

// consume marks a login as used until expires, when the window would reject
// it anyway.
func (a *Admin) consume(login usedLogin, expires time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	for k, exp := range a.used {
		if now.After(exp) {
			delete(a.used, k)
		}
	}
	if _, ok := a.used[login]; ok {
		return ErrLoginReplayed
	}
	a.used[login] = expires
	return nil
}

// Authorize verifies token and re-checks the allow-list, so removing an
// address revokes its sessions.
func (a *Admin) Authorize(token string) (common.Address, error) {
	if a.issuer == nil {
		return common.Address{}, ErrAdminNotEnabled
	}
	addr, err := a.issuer.Verify(token)
	if err != nil {
		return common.Address{}, err
	}
	if !a.allow.Contains(addr) {
		return common.Address{}, ErrNotAllowed
	}
	return addr, nil
}
