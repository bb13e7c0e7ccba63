package auth

const (
	PermEmployeesReadAll = "employees.read_all"
	PermEmployeesManage  = "employees.manage"
	PermOrgManage        = "departments.manage"
	PermPayrollManage    = "payroll.manage"
	PermLeaveReview      = "leave.review"
	PermJobsManage       = "jobs.manage"
	PermApplicantsRead   = "applicants.read"
	PermApplicantsManage = "applicants.manage"
	PermDevicesManage    = "devices.manage"
	PermBenefitsManage   = "benefits.manage"
	PermFeedbackManage   = "feedback.manage"
	PermReportsExport    = "reports.export"
	PermSystemMetrics    = "system.metrics"
)

var hrPermissions = []string{
	PermEmployeesReadAll,
	PermEmployeesManage,
	PermOrgManage,
	PermPayrollManage,
	PermLeaveReview,
	PermJobsManage,
	PermApplicantsRead,
	PermApplicantsManage,
	PermDevicesManage,
	PermBenefitsManage,
	PermFeedbackManage,
	PermReportsExport,
}

var RolePermissions = map[Role][]string{
	RoleEmployee: {},
	RoleManager: {
		PermEmployeesReadAll,
		PermLeaveReview,
		PermApplicantsRead,
	},
	RoleHR:    hrPermissions,
	RoleAdmin: append(append([]string{}, hrPermissions...), PermSystemMetrics),
}

func Can(role Role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
