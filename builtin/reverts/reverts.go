// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRevert is a contract level failure. The call it happens in is rolled back
// and the reason is reported to the caller.
type ErrRevert struct {
	code    string
	message string
}

// New creates a revert error identified by code.
func New(code string) *ErrRevert {
	return &ErrRevert{code: code}
}

// Code returns the identifier of the failure kind.
func (e *ErrRevert) Code() string {
	return e.code
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.code
	}
	return e.code + ": " + e.message
}

// Is reports whether target is a revert of the same kind.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.code == e.code
}

// Withf returns a revert of the same kind with details attached.
func (e *ErrRevert) Withf(format string, args ...any) *ErrRevert {
	return &ErrRevert{code: e.code, message: fmt.Sprintf(format, args...)}
}

// IsRevertErr checks whether err is, or wraps, a revert.
func IsRevertErr(err error) bool {
	var re *ErrRevert
	return errors.As(err, &re) && re != nil
}

// MatchReason reports whether the reason of a reverted output is of the kind of target.
func MatchReason(reason string, target *ErrRevert) bool {
	return reason == target.code || strings.HasPrefix(reason, target.code+": ")
}

var (
	ErrUnauthorized          = New("unauthorized")
	ErrZeroAmount            = New("zero amount")
	ErrInsufficientStake     = New("insufficient stake")
	ErrInsufficientBalance   = New("insufficient balance")
	ErrInsufficientAllowance = New("insufficient allowance")
	ErrNoStakers             = New("no stakers")
	ErrLockedPeriod          = New("locked period")
	ErrOverflow              = New("overflow")
	ErrMinterCap             = New("minter cap exceeded")
	ErrInvalidArgument       = New("invalid argument")
)
