// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides voter code generation and admin code validation.

# Voter Codes

Voter codes are 6-character strings from a 36-character alphabet
(A-Z, 0-9), generated with crypto/rand:

	code, err := auth.RandomCode()

RandomCode produces candidates only; the voter code store retries on
collision against existing rows.

# Admin Code

The admin code is a static shared secret from configuration, compared in
constant time:

	err := auth.ValidateAdminCode(presented, cfg.AdminCode)
*/
package auth
