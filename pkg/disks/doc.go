// Package disks lists the physical disks a deployment can target.
//
// The list comes from Get-Disk serialized with ConvertTo-Json. PowerShell
// emits a bare object when exactly one disk is present and an array
// otherwise; Decode accepts both.
package disks
