// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

type methodKey struct {
	addr bicash.Address
	name string
}

// NativeMethod is a method of a builtin contract callable through a clause.
type NativeMethod struct {
	Contract string
	Name     string
	ReadOnly bool
	run      func(env *xenv.Environment) (any, error)
}

// Run executes the method in env.
func (m *NativeMethod) Run(env *xenv.Environment) (any, error) {
	return m.run(env)
}

var nativeMethods = make(map[methodKey]*NativeMethod)

// FindNativeMethod looks up the method called name of the contract at addr.
func FindNativeMethod(addr bicash.Address, name string) (*NativeMethod, bool) {
	m, ok := nativeMethods[methodKey{addr, name}]
	return m, ok
}

// NativeMethods lists the methods of the contract at addr.
func NativeMethods(addr bicash.Address) []*NativeMethod {
	var methods []*NativeMethod
	for key, m := range nativeMethods {
		if key.addr == addr {
			methods = append(methods, m)
		}
	}
	return methods
}

type methodDef struct {
	name     string
	readOnly bool
	run      func(env *xenv.Environment) (any, error)
}

func register(c *contract, defines []methodDef) {
	for _, def := range defines {
		key := methodKey{c.Address, def.name}
		if _, dup := nativeMethods[key]; dup {
			panic("duplicated native method " + c.Name + "." + def.name)
		}
		nativeMethods[key] = &NativeMethod{
			Contract: c.Name,
			Name:     def.name,
			ReadOnly: def.readOnly,
			run:      def.run,
		}
	}
}
