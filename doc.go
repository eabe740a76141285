// Package auth implements a two phase credential workflow: password
// verification followed by a short lived one time passcode, with a
// signed JWT issued on success.
//
// Signup flow:
//   - Signup validates the payload, hashes the password with PBKDF2 and
//     a per user salt, and persists the credential together with its
//     user profile in a single transaction.
//
// Login flow:
//   - Login checks the password in constant time, then generates and
//     dispatches a 6 digit code through the configured Notifier. Code
//     issuance is rate limited per email with a sliding window held by
//     the AuthFlow instance.
//   - VerifyOTP redeems the code exactly once and returns a signed
//     token. All rejection causes share one generic error so responses
//     never reveal whether an account exists.
//
// HTTP surface:
//   - RegisterAuthRoutes mounts JSON endpoints for signup, login, and
//     code verification on a go-router Router. RouteGuard produces
//     middleware that validates bearer tokens on protected routes.
package auth
